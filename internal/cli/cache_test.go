package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearEntries(t *testing.T) {
	dir := t.TempDir()

	// Two shard directories with entries, plus a foreign file that
	// must survive.
	for _, p := range []string{"ab/cdef.entry", "ab/0123.entry", "ff/9876.entry"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("payload"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	foreign := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := clearEntries(dir)
	if err != nil {
		t.Fatalf("clearEntries() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("clearEntries() removed = %d, want 3", removed)
	}

	if _, err := os.Stat(filepath.Join(dir, "ab")); !os.IsNotExist(err) {
		t.Error("empty shard directory should be pruned")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign file should survive: %v", err)
	}
}

func TestClearEntriesMissingDir(t *testing.T) {
	removed, err := clearEntries(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("clearEntries() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("clearEntries() removed = %d, want 0", removed)
	}
}
