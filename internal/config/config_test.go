package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Shred.DefaultMethod != "zero" || cfg.Shred.DefaultPasses != 3 {
		t.Errorf("unexpected defaults: %+v", cfg.Shred)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shredspace.yaml")
	content := []byte("shred:\n  default_method: dod\n  default_passes: 9\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Shred.DefaultMethod != "dod" || cfg.Shred.DefaultPasses != 9 {
		t.Errorf("got %+v", cfg.Shred)
	}
	// Unset values keep defaults
	if cfg.Scan.MaxRecentDirs != 10 {
		t.Errorf("MaxRecentDirs = %d, want default 10", cfg.Scan.MaxRecentDirs)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("shred: ["), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cfg.yaml")

	cfg := Default()
	cfg.Shred.DefaultMethod = "aes"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Shred.DefaultMethod != "aes" {
		t.Errorf("got %q, want aes", loaded.Shred.DefaultMethod)
	}
}
