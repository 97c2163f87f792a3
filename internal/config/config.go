// Package config loads and validates locfang configuration from file,
// environment and defaults.
package config

import (
	"errors"
	"time"
)

// Config is the top-level configuration struct for locfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Scan       ScanConfig       `mapstructure:"scan"`
	Repository RepositoryConfig `mapstructure:"repository"`
}

// ScanConfig holds traversal and aggregation knobs.
type ScanConfig struct {
	// Workers is the line-counting worker pool size; 0 means NumCPU.
	Workers int `mapstructure:"workers"`
	// TopFiles is the verbose per-language file list length.
	TopFiles int `mapstructure:"top_files"`
	// SkipDirs are directory names pruned from traversal in addition to
	// version-control metadata directories.
	SkipDirs []string `mapstructure:"skip_dirs"`
	// LanguagesFile optionally points at a YAML classification overlay.
	LanguagesFile string `mapstructure:"languages_file"`
}

// RepositoryConfig holds remote acquisition settings.
type RepositoryConfig struct {
	CloneDepth   int           `mapstructure:"clone_depth"`
	CloneTimeout time.Duration `mapstructure:"clone_timeout"`
}

// Default configuration values.
const (
	DefaultScanWorkers            = 0
	DefaultScanTopFiles           = 5
	DefaultRepositoryCloneDepth   = 1
	DefaultRepositoryCloneTimeout = 10 * time.Minute
)

// DefaultScanSkipDirs mirrors the conventional build and dependency
// directories that never carry first-party source.
var DefaultScanSkipDirs = []string{"node_modules", "venv", "env", "__pycache__", "dist", "build"}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("scan.workers must be non-negative")
	// ErrInvalidTopFiles indicates the top files value is not positive.
	ErrInvalidTopFiles = errors.New("scan.top_files must be positive")
	// ErrInvalidCloneDepth indicates the clone depth is not positive.
	ErrInvalidCloneDepth = errors.New("repository.clone_depth must be positive")
	// ErrInvalidCloneTimeout indicates the clone timeout is negative.
	ErrInvalidCloneTimeout = errors.New("repository.clone_timeout must be non-negative")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Scan.TopFiles <= 0 {
		return ErrInvalidTopFiles
	}

	if c.Repository.CloneDepth <= 0 {
		return ErrInvalidCloneDepth
	}

	if c.Repository.CloneTimeout < 0 {
		return ErrInvalidCloneTimeout
	}

	return nil
}
