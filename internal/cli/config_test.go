package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/protouml/protouml/pkg/plantuml"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Render.Endpoint != plantuml.DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Render.Endpoint, plantuml.DefaultEndpoint)
	}
	if cfg.Render.Format != "svg" {
		t.Errorf("Format = %q, want svg", cfg.Render.Format)
	}
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Serve.Addr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Render.Format != "svg" {
		t.Error("missing config should yield defaults")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[render]
endpoint = "http://localhost:9999/plantuml"
format = "png"

[layout]
wrap_min_segments = 2

[cache]
backend = "redis"
ttl_hours = 48
redis_addr = "redis:6379"

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Render.Endpoint != "http://localhost:9999/plantuml" {
		t.Errorf("Endpoint = %q", cfg.Render.Endpoint)
	}
	if cfg.Render.Format != "png" {
		t.Errorf("Format = %q, want png", cfg.Render.Format)
	}
	if cfg.Cache.Backend != cacheBackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if got := cfg.CacheTTL(); got != 48*time.Hour {
		t.Errorf("CacheTTL() = %v, want 48h", got)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Serve.Addr)
	}

	lc := cfg.LayoutOptions()
	if lc.WrapMinSegments != 2 {
		t.Errorf("WrapMinSegments = %d, want 2", lc.WrapMinSegments)
	}
	if lc.WrapMaxSegments == 0 {
		t.Error("unset layout fields should keep defaults")
	}
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nformat = \"bmp\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject unknown render format")
	}
}

func TestLoadConfigInvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject unknown cache backend")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed TOML")
	}
}

func TestCacheTTLDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.CacheTTL(); got != plantuml.DefaultCacheTTL {
		t.Errorf("CacheTTL() = %v, want default", got)
	}
}
