package cli

import (
	"fmt"

	"github.com/kbukum/shellcmd/config"
	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/runner"
	"github.com/kbukum/shellcmd/validation"
)

const (
	serviceName = "shellcmd"
	envPrefix   = "SHELLCMD"
)

// Config is the shellcmd configuration file layout. Map keys read from
// files are lower-cased by viper, so child environment variables belong on
// the command line (--env, --env-file) rather than in runner.env.
//
//	name: shellcmd
//	logging:
//	  level: warn
//	runner:
//	  timeout: 30s
//	  grace_period: 2s
//	observability:
//	  endpoint: localhost:4318
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Runner               runner.Config        `yaml:"runner" mapstructure:"runner"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills zero-valued fields. The runner is named after the
// service unless configured otherwise.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Runner.Name == "" {
		c.Runner.Name = c.Name
	}
	c.Runner.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Runner.Validate(); err != nil {
		return fmt.Errorf("config.runner: %w", err)
	}
	if err := validation.Validate(&c.Observability); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
