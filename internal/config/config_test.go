package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STEPFORM_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Store: StoreConfig{
			Backend:  BackendMemory,
			Dir:      filepath.Join(home, ".local", "share", "stepform", "drafts"),
			RedisURL: "redis://localhost:6379/0",
			TTL:      24 * time.Hour,
		},
		Output: OutputConfig{Format: "json"},
		Log:    LogConfig{Level: "warn"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stepform.yaml")
	data := []byte("definition:\n  path: forms/shop.yaml\nstore:\n  backend: file\n  ttl: 2h\nsession:\n  user: Asha Rao\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("STEPFORM_CONFIG", path)
	t.Setenv("STEPFORM_OUTPUT_FORMAT", "pretty")
	t.Setenv("STEPFORM_STORE_BACKEND", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Definition.Path != "forms/shop.yaml" || cfg.Session.User != "Asha Rao" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Output.Format != "pretty" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Store.TTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", cfg.Store.TTL)
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("SlogLevel() = %v, %v", level, err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("STEPFORM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Store:  StoreConfig{Backend: BackendMemory},
		Output: OutputConfig{Format: "json"},
		Log:    LogConfig{Level: "info"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cases := map[string]func(*Config){
		"backend": func(c *Config) { c.Store.Backend = "s3" },
		"format":  func(c *Config) { c.Output.Format = "form" },
		"level":   func(c *Config) { c.Log.Level = "loud" },
		"ttl":     func(c *Config) { c.Store.TTL = -time.Second },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
