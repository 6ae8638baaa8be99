package process

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// EnvVar is one environment entry of an overlay.
type EnvVar struct {
	Key   string
	Value string
}

// Env is shorthand for EnvVar{Key: key, Value: value}.
func Env(key, value string) EnvVar {
	return EnvVar{Key: key, Value: value}
}

// String returns KEY=VALUE.
func (e EnvVar) String() string { return e.Key + "=" + e.Value }

// WithEnv overlays vars onto the inherited environment, in order. Later
// entries win over earlier ones with the same key, within one call and
// across calls. The overlay never replaces the inherited environment.
func (c Command) WithEnv(vars ...EnvVar) Command {
	env := make(map[string]string, len(c.env)+len(vars))
	maps.Copy(env, c.env)
	for _, v := range vars {
		env[v.Key] = v.Value
	}
	c.env = env
	return c
}

// WithEnvMap is WithEnv for a map.
func (c Command) WithEnvMap(vars map[string]string) Command {
	env := make(map[string]string, len(c.env)+len(vars))
	maps.Copy(env, c.env)
	maps.Copy(env, vars)
	c.env = env
	return c
}

// LoadEnvFile reads a dotenv file and returns its entries sorted by key.
func LoadEnvFile(path string) ([]EnvVar, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("process: read env file %s: %w", path, err)
	}
	vars := make([]EnvVar, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		vars = append(vars, Env(k, m[k]))
	}
	return vars, nil
}

// mergeEnv returns nil when there is no overlay so exec inherits the parent
// environment. Otherwise the overlay is appended after os.Environ; exec keeps
// the last value for duplicate keys.
func mergeEnv(overlay map[string]string) []string {
	if overlay == nil {
		return nil
	}
	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(overlay)) {
		env = append(env, k+"="+overlay[k])
	}
	return env
}
