// Package config loads server settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig names the server as reported to clients during initialize.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LogConfig controls where log lines go and how much gets written.
// An empty file means stderr.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Config carries every tunable of the server process.
type Config struct {
	Server         ServerConfig `yaml:"server"`
	Log            LogConfig    `yaml:"log"`
	ReadBufferSize int          `yaml:"read_buffer_size"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "go-tree-lsp",
			Version: "0.1.0",
		},
		Log: LogConfig{
			Level: "error",
		},
		ReadBufferSize: 512,
	}
}

// Load reads settings from path. Anything the file leaves out keeps its
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("read_buffer_size must be positive, got %d", c.ReadBufferSize)
	}
	if c.Server.Name == "" {
		return fmt.Errorf("server name must not be empty")
	}

	switch c.Log.Level {
	case "", "debug", "info", "notice", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}
