package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	APIBase        string        `yaml:"api_base" env:"RBAC_CONSOLE_API_BASE"`               // Backend base address
	SessionFile    string        `yaml:"session_file" env:"RBAC_CONSOLE_SESSION_FILE"`       // Where the credential is kept
	RequestTimeout time.Duration `yaml:"request_timeout" env:"RBAC_CONSOLE_REQUEST_TIMEOUT"` // 0 waits forever

	// Logging configuration
	LogLevel   string `yaml:"log_level" env:"RBAC_CONSOLE_LOG_LEVEL"`     // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" env:"RBAC_CONSOLE_LOG_FILE"`       // Path to log file
	LogConsole bool   `yaml:"log_console" env:"RBAC_CONSOLE_LOG_CONSOLE"` // Enable console logging
}

// Dir returns ~/.rbac-console
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rbac-console"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	cfg := &Config{
		APIBase:  "http://localhost:8080",
		LogLevel: "INFO",
	}

	if dir, err := Dir(); err == nil {
		cfg.SessionFile = filepath.Join(dir, "session.json")
		cfg.LogFile = filepath.Join(dir, "logs", "rbac-console.log")
	}
	return cfg
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.rbac-console/config.yaml
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.rbac-console/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as YAML to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
