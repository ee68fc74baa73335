package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Smart Beaver configuration.
type Config struct {
	// Where base contracts, extensions and static files come from
	Source SourceConfig `yaml:"source"`

	// Fetched-file cache
	Cache CacheConfig `yaml:"cache"`

	// Generated output
	Output OutputConfig `yaml:"output"`

	// License written into generated Cargo.toml files
	License string `yaml:"license"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects the contract source. URL wins over Dir.
type SourceConfig struct {
	URL     string `yaml:"url"`
	Dir     string `yaml:"dir"`
	Timeout string `yaml:"timeout"`
}

// CacheConfig configures the in-memory LRU in front of the source.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Size    int    `yaml:"size"`
	TTL     string `yaml:"ttl"`
}

// OutputConfig configures where generated files are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:     "contracts",
			Timeout: "30s",
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    128,
			TTL:     "10m",
		},
		Output: OutputConfig{
			Dir: "out",
		},
		License: "MIT",
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("BEAVER_SOURCE_URL"); url != "" {
		c.Source.URL = url
	}
	if dir := os.Getenv("BEAVER_SOURCE_DIR"); dir != "" {
		c.Source.Dir = dir
		// An explicit directory beats a URL from the file.
		if os.Getenv("BEAVER_SOURCE_URL") == "" {
			c.Source.URL = ""
		}
	}
	if level := os.Getenv("BEAVER_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.DebugMode = true
	}
	if license := os.Getenv("BEAVER_LICENSE"); license != "" {
		c.License = license
	}
}

// GetSourceTimeout returns the remote fetch timeout as a duration.
func (c *Config) GetSourceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL returns the cache entry lifetime as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// ValidLevels lists all supported log levels.
var ValidLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.Dir == "" {
		return fmt.Errorf("no contract source configured (set source.url, source.dir, BEAVER_SOURCE_URL or BEAVER_SOURCE_DIR)")
	}
	if c.Source.URL != "" && !strings.HasPrefix(c.Source.URL, "http://") && !strings.HasPrefix(c.Source.URL, "https://") {
		return fmt.Errorf("invalid source url: %s (must be http or https)", c.Source.URL)
	}
	if c.Cache.Enabled && c.Cache.Size <= 0 {
		return fmt.Errorf("invalid cache size: %d", c.Cache.Size)
	}

	validLevel := c.Logging.Level == ""
	for _, l := range ValidLevels {
		if strings.EqualFold(c.Logging.Level, l) {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	return nil
}

// IsRemote reports whether contracts are fetched over HTTP.
func (c *Config) IsRemote() bool {
	return c.Source.URL != ""
}
