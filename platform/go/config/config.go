package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment driven settings shared by every command.
type Config struct {
	HostBinary      string        `env:"ORGADMIN_HOST_BIN" envDefault:"sfdx"`
	ProjectDir      string        `env:"ORGADMIN_PROJECT_DIR" envDefault:"."`
	ProjectFile     string        `env:"ORGADMIN_PROJECT_FILE" envDefault:"sfdx-project.json"`
	LogLevel        string        `env:"ORGADMIN_LOG_LEVEL" envDefault:"warn"`
	CommandTimeout  time.Duration `env:"ORGADMIN_COMMAND_TIMEOUT" envDefault:"10m"`
	MaxOutputBytes  int           `env:"ORGADMIN_MAX_OUTPUT_BYTES" envDefault:"8388608"`
	DefaultUsername string        `env:"SFDX_DEFAULTUSERNAME"`
	LocalOnly       bool          `env:"LOCALONLY" envDefault:"false"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom parses the supplied variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, cfg.validate()
}

// DescriptorPath is the absolute location of the project descriptor.
func (c Config) DescriptorPath() (string, error) {
	root, err := filepath.Abs(c.ProjectDir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	return filepath.Join(root, c.ProjectFile), nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HostBinary) == "" {
		return fmt.Errorf("ORGADMIN_HOST_BIN must not be empty")
	}
	if strings.TrimSpace(c.ProjectFile) == "" {
		return fmt.Errorf("ORGADMIN_PROJECT_FILE must not be empty")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("ORGADMIN_COMMAND_TIMEOUT must be positive")
	}
	if c.MaxOutputBytes <= 0 {
		return fmt.Errorf("ORGADMIN_MAX_OUTPUT_BYTES must be positive")
	}
	return nil
}
