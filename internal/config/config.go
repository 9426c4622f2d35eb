// Package config holds the runtime settings shared by the CLI and the
// layers it wires together.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

const (
	DefaultLogLevel      = "info"
	DefaultDataDir       = "data"
	DefaultNameCacheSize = 256
)

// Config is the runtime configuration. Zero values are not usable; start
// from Default and override.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// SeqURL enables the Seq log sink when non-empty.
	SeqURL string
	// IgnoreIdentifierCase makes table and column names case-insensitive.
	IgnoreIdentifierCase bool
	// NameCacheSize bounds the database's case-folded table name cache.
	NameCacheSize int
	// DataDir is the JSON database directory.
	DataDir string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		NameCacheSize: DefaultNameCacheSize,
		DataDir:       DefaultDataDir,
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.NameCacheSize <= 0 {
		return fmt.Errorf("name cache size must be positive, got %d", c.NameCacheSize)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must be set")
	}
	if c.SeqURL != "" {
		u, err := url.Parse(c.SeqURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid seq url %q", c.SeqURL)
		}
	}
	return nil
}
