package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kbukum/shellcmd/logger"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "shellcmd"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.ServiceName != "shellcmd" {
		t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}

	debug := ServiceConfig{Name: "shellcmd", Debug: true}
	debug.ApplyDefaults()
	if debug.Logging.Level != "debug" {
		t.Errorf("expected debug level when Debug is set, got %q", debug.Logging.Level)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, false},
		{"missing name", ServiceConfig{Environment: "production"}, true},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, true},
		{"invalid log format", ServiceConfig{Name: "svc", Environment: "production", Logging: loggerConfig("xml")}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cfg.Logging.Level == "" {
				tc.cfg.Logging.ApplyDefaults()
			}
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Runner        struct {
		Timeout     time.Duration `mapstructure:"timeout"`
		GracePeriod time.Duration `mapstructure:"grace_period"`
	} `mapstructure:"runner"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
name: shellcmd
environment: staging
runner:
  timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("shellcmd", &cfg, WithConfigFile(path), WithEnvPrefix("SHELLCMD_TEST_NONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "shellcmd" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Runner.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Runner.Timeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("name: shellcmd\nrunner:\n  timeout: 30s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHCTEST_RUNNER_GRACE_PERIOD", "2s")
	t.Setenv("SHCTEST_ENVIRONMENT", "production")

	var cfg testConfig
	if err := LoadConfig("shellcmd", &cfg, WithConfigFile(path), WithEnvPrefix("SHCTEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Runner.GracePeriod != 2*time.Second {
		t.Errorf("expected grace period from env, got %v", cfg.Runner.GracePeriod)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment from env, got %q", cfg.Environment)
	}
	if cfg.Runner.Timeout != 30*time.Second {
		t.Errorf("file values must survive, got %v", cfg.Runner.Timeout)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("SHCENV_NAME=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SHCENV_NAME") })

	var cfg testConfig
	if err := LoadConfig("shellcmd", &cfg, WithEnvFile(envPath), WithEnvPrefix("SHCENV"),
		WithFileSystem(&mockFS{files: map[string]bool{envPath: true}, real: true})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("shellcmd", &cfg,
		WithFileSystem(&mockFS{}),
		WithEnvPrefix("SHCDEFAULT"),
		WithDefault("name", "fallback"),
		WithDefault("runner.timeout", "5s"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "fallback" || cfg.Runner.Timeout != 5*time.Second {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("shellcmd", &cfg, WithConfigFile("/nonexistent/path.yml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{
		files: map[string]bool{
			"./config.yml":                        true,
			"./shellcmd.yml":                      true,
			"/home/u/.config/shellcmd/config.yml": true,
			"./.env":                              true,
		},
		configDir: "/home/u/.config",
	}
	resolver := &Resolver{FileSystem: fs}

	files := resolver.ResolveFiles("shellcmd", LoaderConfig{})
	if files.ConfigFile != "./shellcmd.yml" {
		t.Errorf("expected ./shellcmd.yml first, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}

	delete(fs.files, "./shellcmd.yml")
	delete(fs.files, "./config.yml")
	files = resolver.ResolveFiles("shellcmd", LoaderConfig{})
	if files.ConfigFile != "/home/u/.config/shellcmd/config.yml" {
		t.Errorf("expected user config dir, got %q", files.ConfigFile)
	}

	files = resolver.ResolveFiles("shellcmd", LoaderConfig{ConfigFile: "explicit.yml"})
	if files.ConfigFile != "explicit.yml" {
		t.Errorf("explicit path must win, got %q", files.ConfigFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"NAME", []string{"name"}},
		{"RUNNER_TIMEOUT", []string{"runner_timeout", "runner.timeout"}},
		{"RUNNER_GRACE_PERIOD", []string{"runner_grace_period", "runner.grace.period", "runner.grace_period"}},
	}
	for _, tc := range tests {
		if got := generateEnvKeyVariants(tc.key); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.key, tc.want, got)
		}
	}
}

type mockFS struct {
	files     map[string]bool
	configDir string
	real      bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	if m.real {
		return (&RealFileSystem{}).LoadEnv(path)
	}
	return nil
}

func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func loggerConfig(format string) logger.Config {
	cfg := logger.Config{Format: format}
	cfg.ApplyDefaults()
	return cfg
}
