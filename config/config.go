// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package config holds the configuration of the aggregator command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/pelletier/go-toml/v2"
)

// Backend is a database backend name.
type Backend string

const (
	// PebbleBackend stores state with pebble.
	PebbleBackend Backend = "pebble"
	// BadgerBackend stores state with badger.
	BadgerBackend Backend = "badger"
	// MemoryBackend keeps state in a Go map.
	MemoryBackend Backend = "memory"
)

// String returns the string representation of the backend
func (b Backend) String() string {
	return string(b)
}

var (
	ErrBackendNotSupported = errors.New("database backend not supported")
	ErrEmptyDatabasePath   = errors.New("database path cannot be empty")
)

const (
	// DefaultBasePath is the default base directory.
	DefaultBasePath = "~/.aggregator"
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
	// DefaultTablePrefix prefixes every state key in the database.
	DefaultTablePrefix = "state/"
)

// Config is the configuration of the aggregator command.
type Config struct {
	BaseConfig `mapstructure:",squash"`
	Log        *LogConfig       `mapstructure:"log" toml:"log"`
	Database   *DatabaseConfig  `mapstructure:"database" toml:"database"`
	ChangeSet  *ChangeSetConfig `mapstructure:"change-set" toml:"change-set"`
}

// BaseConfig is the base configuration.
type BaseConfig struct {
	BasePath string `mapstructure:"base-path" toml:"base-path"`
}

// LogConfig is the log configuration. An empty package level
// leaves the package at the global level.
type LogConfig struct {
	Level      string `mapstructure:"level" toml:"level"`
	Aggregator string `mapstructure:"aggregator" toml:"aggregator"`
	State      string `mapstructure:"state" toml:"state"`
	Database   string `mapstructure:"database" toml:"database"`

	// Caller appends the file and line of the logging code to each line.
	Caller bool `mapstructure:"caller" toml:"caller"`
}

// DatabaseConfig is the state database configuration.
type DatabaseConfig struct {
	Backend     Backend `mapstructure:"backend" toml:"backend"`
	Path        string  `mapstructure:"path" toml:"path"`
	InMemory    bool    `mapstructure:"in-memory" toml:"in-memory"`
	TablePrefix string  `mapstructure:"table-prefix" toml:"table-prefix"`
}

// ChangeSetConfig bounds the size of squashed change sets.
// A zero value disables the corresponding limit.
type ChangeSetConfig struct {
	MaxWriteOpsPerTransaction uint64 `mapstructure:"max-write-ops-per-transaction" toml:"max-write-ops-per-transaction"`
	MaxBytesPerWriteOp        uint64 `mapstructure:"max-bytes-per-write-op" toml:"max-bytes-per-write-op"`
	MaxBytesAllWriteOps       uint64 `mapstructure:"max-bytes-all-write-ops" toml:"max-bytes-all-write-ops"`
	MaxBytesPerEvent          uint64 `mapstructure:"max-bytes-per-event" toml:"max-bytes-per-event"`
	MaxBytesAllEvents         uint64 `mapstructure:"max-bytes-all-events" toml:"max-bytes-all-events"`
}

// Configs returns the change set checker for the limits.
func (c ChangeSetConfig) Configs() transaction.ChangeSetConfigs {
	return transaction.ChangeSetConfigs{
		MaxWriteOpsPerTransaction: c.MaxWriteOpsPerTransaction,
		MaxBytesPerWriteOp:        c.MaxBytesPerWriteOp,
		MaxBytesAllWriteOps:       c.MaxBytesAllWriteOps,
		MaxBytesPerEvent:          c.MaxBytesPerEvent,
		MaxBytesAllEvents:         c.MaxBytesAllEvents,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig: BaseConfig{
			BasePath: DefaultBasePath,
		},
		Log: &LogConfig{
			Level: DefaultLogLevel,
		},
		Database: &DatabaseConfig{
			Backend:     PebbleBackend,
			Path:        "db",
			TablePrefix: DefaultTablePrefix,
		},
		ChangeSet: &ChangeSetConfig{
			MaxWriteOpsPerTransaction: 8192,
			MaxBytesPerWriteOp:        1 << 20,
			MaxBytesAllWriteOps:       10 << 20,
			MaxBytesPerEvent:          1 << 20,
			MaxBytesAllEvents:         10 << 20,
		},
	}
}

// ValidateBasic performs basic validation on the config
func (c *Config) ValidateBasic() error {
	if c.BasePath == "" {
		return fmt.Errorf("base-path must be set")
	}
	if err := c.Log.ValidateBasic(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Database.ValidateBasic(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// ValidateBasic checks every log level parses.
func (l *LogConfig) ValidateBasic() error {
	levels := map[string]string{
		"level":      l.Level,
		"aggregator": l.Aggregator,
		"state":      l.State,
		"database":   l.Database,
	}
	for name, level := range levels {
		if level == "" {
			continue
		}
		if _, err := log.ParseLevel(level); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ValidateBasic checks the backend is supported and has a path
// when it is stored on disk.
func (d *DatabaseConfig) ValidateBasic() error {
	switch d.Backend {
	case PebbleBackend, BadgerBackend:
		if !d.InMemory && d.Path == "" {
			return fmt.Errorf("%w: for backend %s", ErrEmptyDatabasePath, d.Backend)
		}
	case MemoryBackend:
	default:
		return fmt.Errorf("%w: %s", ErrBackendNotSupported, d.Backend)
	}
	return nil
}

// DatabasePath returns the database path, relative paths being
// resolved against the base path.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(ExpandDir(c.BasePath), c.Database.Path)
}

// ExpandDir expands a leading ~ to the home directory of the user.
func ExpandDir(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// WriteTOML writes the config as TOML to the given file path,
// creating parent directories as needed.
func WriteTOML(path string, c *Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	const perms = 0o600
	err = os.WriteFile(path, data, perms)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
