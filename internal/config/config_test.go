package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BEAVER_SOURCE_URL", "BEAVER_SOURCE_DIR", "BEAVER_LOG_LEVEL", "BEAVER_LICENSE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Source.Dir != "contracts" {
		t.Errorf("expected Source.Dir=contracts, got %s", cfg.Source.Dir)
	}
	if cfg.License != "MIT" {
		t.Errorf("expected License=MIT, got %s", cfg.License)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Size != 128 {
		t.Errorf("expected enabled cache of 128, got %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "beaver.yaml")

	cfg := DefaultConfig()
	cfg.Source.URL = "https://example.com/contracts"
	cfg.License = "Apache-2.0"
	cfg.Logging.Categories = map[string]bool{"parse": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.IsRemote())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "beaver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("license: GPL-3.0\ncache:\n  ttl: 1m\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GPL-3.0", cfg.License)
	assert.Equal(t, time.Minute, cfg.GetCacheTTL())
	assert.Equal(t, "contracts", cfg.Source.Dir)
	assert.Equal(t, 128, cfg.Cache.Size)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beaver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 30*time.Second, cfg.GetSourceTimeout())
	assert.Equal(t, 10*time.Minute, cfg.GetCacheTTL())

	cfg.Source.Timeout = "5s"
	cfg.Cache.TTL = "-1m"
	assert.Equal(t, 5*time.Second, cfg.GetSourceTimeout())
	assert.Equal(t, 10*time.Minute, cfg.GetCacheTTL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no source", func(c *Config) { c.Source = SourceConfig{} }, true},
		{"ftp source", func(c *Config) { c.Source.URL = "ftp://host/contracts" }, true},
		{"https source", func(c *Config) { c.Source.URL = "https://host/contracts" }, false},
		{"zero cache", func(c *Config) { c.Cache.Size = 0 }, true},
		{"zero cache disabled", func(c *Config) { c.Cache = CacheConfig{} }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"upper level", func(c *Config) { c.Logging.Level = "DEBUG" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	c := LoggingConfig{DebugMode: true, Level: "debug", Categories: map[string]bool{"merge": false}}
	assert.False(t, c.IsCategoryEnabled("merge"))
	assert.True(t, c.IsCategoryEnabled("parse"))

	lc := c.Logging()
	assert.True(t, lc.DebugMode)
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, c.Categories, lc.Categories)

	c.DebugMode = false
	assert.False(t, c.IsCategoryEnabled("parse"))
}
