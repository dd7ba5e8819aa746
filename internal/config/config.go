// Package config loads the settings of the reading list from the data
// directory.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maruel/readinglist/internal/images"
	"github.com/maruel/readinglist/internal/jsonldb"
	"github.com/maruel/readinglist/internal/models"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file in the data directory.
const FileName = "config.yaml"

// Environment variables overriding the defaults.
const (
	EnvDataDir  = "READINGLIST_DATA_DIR"
	EnvLogLevel = "READINGLIST_LOG_LEVEL"
)

// Config holds the persisted settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// SortMode is the initial projection: manual, title or author.
	SortMode models.SortMode `yaml:"sort_mode"`
	// JPEGQuality is the quality of stored covers, 1 to 100.
	JPEGQuality int `yaml:"jpeg_quality"`
	// CoverMaxSize bounds the sides of imported covers in pixels. 0 keeps the
	// original size.
	CoverMaxSize int `yaml:"cover_max_size"`
	// History records every saved version of the reading list in git.
	History bool `yaml:"history"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		SortMode:     models.SortManual,
		JPEGQuality:  images.DefaultQuality,
		CoverMaxSize: 1024,
	}
}

// Load reads dataDir/config.yaml. A missing file is created with defaults.
// Fields absent from the file keep their default value.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Save writes the configuration to dataDir/config.yaml.
func (c *Config) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := jsonldb.WriteFileAtomic(filepath.Join(dataDir, FileName), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.SortMode {
	case models.SortManual, models.SortTitle, models.SortAuthor:
	default:
		return fmt.Errorf("invalid sort_mode %d", int(c.SortMode))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.CoverMaxSize < 0 {
		return fmt.Errorf("cover_max_size must not be negative, got %d", c.CoverMaxSize)
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}

// DataDir returns the data directory: flag when set, else $READINGLIST_DATA_DIR,
// else "readinglist" in the user configuration directory.
func DataDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find a data directory, set %s: %w", EnvDataDir, err)
	}
	return filepath.Join(base, "readinglist"), nil
}

// LogLevelName returns the log level name: flag when set, else
// $READINGLIST_LOG_LEVEL, else the configured one.
func (c *Config) LogLevelName(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	return c.LogLevel
}
