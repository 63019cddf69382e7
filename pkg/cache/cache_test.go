package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "token:abc", []byte("svg bytes"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok, err := c.Get(ctx, "token:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if string(data) != "svg bytes" {
		t.Errorf("Get() data = %q, want %q", data, "svg bytes")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want expired entry to miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after Delete() = hit, want miss")
	}

	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCacheRawPayload(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	payload := []byte("line one\nline two\x00\x89PNG")
	if err := c.Set(ctx, "render:bin", payload, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Payloads with newlines and binary bytes survive: only the first
	// line of an entry file is the header.
	data, ok, err := c.Get(ctx, "render:bin")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if string(data) != string(payload) {
		t.Errorf("Get() data = %q, want %q", data, payload)
	}

	// The payload is stored as-is after the header line.
	fc := c.(*FileCache)
	raw, err := os.ReadFile(fc.path("render:bin"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		t.Fatal("entry file has no header line")
	}
	var hdr entryHeader
	if err := json.Unmarshal(raw[:i], &hdr); err != nil {
		t.Fatalf("header is not JSON: %v", err)
	}
	if hdr.Key != "render:bin" {
		t.Errorf("header key = %q, want %q", hdr.Key, "render:bin")
	}
	if string(raw[i+1:]) != string(payload) {
		t.Error("payload is not stored verbatim after the header")
	}
}

func TestFileCacheCorruptEntryEvicted(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	fc := c.(*FileCache)
	path := fc.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not a header"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "bad"); err != nil || ok {
		t.Errorf("Get() = (ok=%v, err=%v), want corrupt entry to miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be evicted")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("NullCache Get() = hit, want miss")
	}
}

func TestKeyStability(t *testing.T) {
	a := Key("render", "TOKEN", "svg")
	b := Key("render", "TOKEN", "svg")
	if a != b {
		t.Errorf("Key() not stable: %q != %q", a, b)
	}

	c := Key("render", "TOKEN", "png")
	if a == c {
		t.Error("Key() collides across different parts")
	}
}
