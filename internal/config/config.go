// Package config loads aide configuration from YAML with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for aide.
type Config struct {
	// Backend selects the model provider: auto, ollama, or lmstudio
	Backend string `yaml:"backend"`

	// Model is the model name passed to the backend
	Model string `yaml:"model"`

	// OllamaURL is the Ollama server base URL
	OllamaURL string `yaml:"ollama_url"`

	// LMStudioURL is the LM Studio server base URL
	LMStudioURL string `yaml:"lmstudio_url"`

	// Temperature for text generation
	Temperature float64 `yaml:"temperature"`

	// MaxAttempts bounds the retry loop per user turn
	MaxAttempts int `yaml:"max_attempts"`

	// CommandTimeout bounds each terminal command
	CommandTimeout time.Duration `yaml:"-"`

	// LogLevel sets logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// PermissionDB is the path to the permission registry database
	PermissionDB string `yaml:"permission_db"`

	// HistoryLimit caps how many history entries feed each prompt (0 = all)
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Backend:        "auto",
		Model:          "llama3",
		OllamaURL:      "http://localhost:11434",
		LMStudioURL:    "http://localhost:1234",
		Temperature:    0.7,
		MaxAttempts:    3,
		CommandTimeout: 60 * time.Second,
		LogLevel:       "info",
		PermissionDB:   filepath.Join(home, ".aide", "permissions.db"),
		HistoryLimit:   20,
	}
}

// LoadConfig loads configuration from the given path. A missing file yields
// the defaults without error; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings in YAML; parse through a shadow type.
	type yamlConfig struct {
		Backend        string  `yaml:"backend"`
		Model          string  `yaml:"model"`
		OllamaURL      string  `yaml:"ollama_url"`
		LMStudioURL    string  `yaml:"lmstudio_url"`
		Temperature    float64 `yaml:"temperature"`
		MaxAttempts    int     `yaml:"max_attempts"`
		CommandTimeout string  `yaml:"command_timeout"`
		LogLevel       string  `yaml:"log_level"`
		PermissionDB   string  `yaml:"permission_db"`
		HistoryLimit   int     `yaml:"history_limit"`
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if raw.Backend != "" {
		cfg.Backend = raw.Backend
	}
	if raw.Model != "" {
		cfg.Model = raw.Model
	}
	if raw.OllamaURL != "" {
		cfg.OllamaURL = raw.OllamaURL
	}
	if raw.LMStudioURL != "" {
		cfg.LMStudioURL = raw.LMStudioURL
	}
	if raw.Temperature != 0 {
		cfg.Temperature = raw.Temperature
	}
	if raw.MaxAttempts != 0 {
		cfg.MaxAttempts = raw.MaxAttempts
	}
	if raw.CommandTimeout != "" {
		d, err := time.ParseDuration(raw.CommandTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid command_timeout: %w", err)
		}
		cfg.CommandTimeout = d
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.PermissionDB != "" {
		cfg.PermissionDB = raw.PermissionDB
	}
	if raw.HistoryLimit != 0 {
		cfg.HistoryLimit = raw.HistoryLimit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the default config file location (~/.aide/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".aide", "config.yaml")
}

// Validate checks field values that have a constrained domain.
func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "ollama", "lmstudio":
	default:
		return fmt.Errorf("invalid backend: %s (supported: auto, ollama, lmstudio)", c.Backend)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive")
	}
	return nil
}
