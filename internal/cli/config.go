package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/protouml/protouml/pkg/plantuml"
	"github.com/protouml/protouml/pkg/uml"
)

// =============================================================================
// Configuration
// =============================================================================

// Cache backends selectable via [cache].backend.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config holds the TOML configuration for all commands. Every field has a
// default, so a missing config file is not an error.
type Config struct {
	Render RenderConfig `toml:"render"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig configures the PlantUML render server access.
type RenderConfig struct {
	Endpoint string `toml:"endpoint"` // render server base URL
	Format   string `toml:"format"`   // default output format: png, svg, txt
}

// LayoutConfig configures the package-wrapping heuristic. Zero values keep
// the built-in thresholds.
type LayoutConfig struct {
	MeaningfulSuffixes []string `toml:"meaningful_suffixes"`
	WrapMinSegments    int      `toml:"wrap_min_segments"`
	WrapMaxSegments    int      `toml:"wrap_max_segments"`
	ShortPathSegments  int      `toml:"short_path_segments"`
	DeepPathSegments   int      `toml:"deep_path_segments"`
}

// CacheConfig configures the rendered-image cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`    // file (default), redis, none
	Dir       string `toml:"dir"`        // file backend directory (XDG default if empty)
	TTLHours  int    `toml:"ttl_hours"`  // entry lifetime
	RedisAddr string `toml:"redis_addr"` // redis backend address
}

// ServeConfig configures the HTTP serve command.
type ServeConfig struct {
	Addr     string `toml:"addr"`      // listen address
	MongoURI string `toml:"mongo_uri"` // share store; in-memory if empty
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Endpoint: plantuml.DefaultEndpoint,
			Format:   "svg",
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			TTLHours:  int(plantuml.DefaultCacheTTL / time.Hour),
			RedisAddr: "localhost:6379",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// DefaultConfigPath returns the default config file location
// (~/.config/protouml/config.toml).
func DefaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LoadConfig reads the TOML config at path, layering it over the defaults.
// A missing file returns the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !plantuml.ValidFormat(c.Render.Format) {
		return fmt.Errorf("invalid render format: %s", c.Render.Format)
	}
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %s", c.Cache.Backend)
	}
	return nil
}

// CacheTTL returns the configured cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLHours <= 0 {
		return plantuml.DefaultCacheTTL
	}
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// LayoutOptions converts the config into layout thresholds, keeping the
// built-in defaults for unset values.
func (c *Config) LayoutOptions() *uml.LayoutConfig {
	lc := uml.DefaultLayoutConfig()
	if len(c.Layout.MeaningfulSuffixes) > 0 {
		lc.MeaningfulSuffixes = c.Layout.MeaningfulSuffixes
	}
	if c.Layout.WrapMinSegments > 0 {
		lc.WrapMinSegments = c.Layout.WrapMinSegments
	}
	if c.Layout.WrapMaxSegments > 0 {
		lc.WrapMaxSegments = c.Layout.WrapMaxSegments
	}
	if c.Layout.ShortPathSegments > 0 {
		lc.ShortPathSegments = c.Layout.ShortPathSegments
	}
	if c.Layout.DeepPathSegments > 0 {
		lc.DeepPathSegments = c.Layout.DeepPathSegments
	}
	return &lc
}
