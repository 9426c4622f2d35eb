package config

import (
	"log/slog"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NilError(t, cfg.Validate())

	level, err := cfg.Level()
	assert.NilError(t, err)
	assert.Equal(t, level, slog.LevelInfo)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"zero cache", func(c *Config) { c.NameCacheSize = 0 }, "name cache size"},
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data directory"},
		{"seq url", func(c *Config) { c.SeqURL = "http://localhost:5341" }, ""},
		{"bad seq url", func(c *Config) { c.SeqURL = "localhost" }, "invalid seq url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NilError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
