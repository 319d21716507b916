package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// FSConfig holds filesystem settings from environment variables
type FSConfig struct {
	ProcRoot      string `env:"PROCSTATFS_PROC_ROOT" envDefault:"/proc"`
	MaxIDLength   int    `env:"PROCSTATFS_MAX_ID_LENGTH" envDefault:"32"`
	MaxStatusSize int64  `env:"PROCSTATFS_MAX_STATUS_SIZE" envDefault:"1048576"`
	LogLevel      string `env:"PROCSTATFS_LOG_LEVEL" envDefault:"info"`
	FSName        string `env:"PROCSTATFS_FSNAME" envDefault:"procstatfs"`
}

// ParseFSConfig parses filesystem configuration from environment variables
func ParseFSConfig() (*FSConfig, error) {
	var cfg FSConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse filesystem config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FSConfig) validate() error {
	if c.ProcRoot == "" {
		return fmt.Errorf("PROCSTATFS_PROC_ROOT cannot be empty")
	}
	if c.MaxIDLength <= 0 {
		return fmt.Errorf("PROCSTATFS_MAX_ID_LENGTH must be positive, got %d", c.MaxIDLength)
	}
	if c.MaxStatusSize <= 0 {
		return fmt.Errorf("PROCSTATFS_MAX_STATUS_SIZE must be positive, got %d", c.MaxStatusSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *FSConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid PROCSTATFS_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
