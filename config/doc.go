// Package config loads layered configuration for shellcmd and the tools
// built on it.
//
// Sources, lowest precedence first:
//
//  1. a YAML file (explicit, or found in the standard locations)
//  2. a .env file, loaded into the process environment
//  3. environment variables, optionally restricted to a prefix
//
// Environment variables map onto nested keys by trying every split of the
// underscore-separated name, so SHELLCMD_RUNNER_TIMEOUT sets runner.timeout.
//
//	var cfg MyConfig
//	err := config.LoadConfig("shellcmd", &cfg, config.WithEnvPrefix("SHELLCMD"))
package config
