package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the serving parameters. It is assembled once at process
// entry (flags > environment > config file > defaults) and passed in whole;
// nothing below the entry point reads the environment.
type Config struct {
	// BindHost and BindPort form the listen address.
	BindHost string `yaml:"bind_host"`
	BindPort int    `yaml:"bind_port"`

	// ScriptDir overrides the embedded tool set with an on-disk tree.
	ScriptDir string `yaml:"script_dir"`

	// Validate parses every rendered script as POSIX sh before serving it.
	Validate bool `yaml:"validate"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BindHost: "127.0.0.1",
		BindPort: 7667,
		LogLevel: "info",
	}
}

// LoadConfigFile reads a YAML config file over base. Missing file is an
// error: the flag explicitly named it.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config file: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindHost, c.BindPort)
}
