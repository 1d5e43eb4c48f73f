package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Search.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("expected default debounce 250ms, got %v", cfg.Search.Debounce.Duration)
	}
	if len(cfg.Tags.Quick) == 0 || len(cfg.Tags.Extra) == 0 {
		t.Errorf("expected default tag catalog, got quick=%d extra=%d", len(cfg.Tags.Quick), len(cfg.Tags.Extra))
	}
}

func TestLoadConfigPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
database = "/tmp/test.db"

[server]
port = 9090

[[tags.quick]]
value = "soup"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Database != "/tmp/test.db" {
		t.Errorf("expected database from file, got %q", cfg.Database)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Search.Limit != 30 {
		t.Errorf("expected default limit, got %d", cfg.Search.Limit)
	}
	if len(cfg.Tags.Quick) != 1 || cfg.Tags.Quick[0].Value != "soup" {
		t.Errorf("expected configured quick tags to survive, got %+v", cfg.Tags.Quick)
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("GetDefaultConfig: %v", err)
	}
	cfg.Database = "/tmp/roundtrip.db"
	cfg.Search.Debounce = Duration{400 * time.Millisecond}

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Database != "/tmp/roundtrip.db" {
		t.Errorf("database mismatch: %q", loaded.Database)
	}
	if loaded.Search.Debounce.Duration != 400*time.Millisecond {
		t.Errorf("debounce mismatch: %v", loaded.Search.Debounce.Duration)
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{Database: "/data/recipes.db"}
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading template: %v", err)
	}
	if !strings.Contains(string(data), "/data/recipes.db") {
		t.Errorf("expected template to contain database path, got:\n%s", data)
	}
	if !strings.Contains(string(data), "[[tags.quick]]") {
		t.Errorf("expected template to contain tag catalog sections")
	}
}
