package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "deskdata" {
		t.Errorf("data dir = %q, want deskdata", cfg.Storage.DataDir)
	}
	if cfg.Pagination.DefaultLimit != 100 || cfg.Pagination.MaxLimit != 1000 {
		t.Errorf("pagination = %+v, want defaults", cfg.Pagination)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9000
storage:
  data_dir: /tmp/desk
logging:
  level: debug
  format: text
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/desk" {
		t.Errorf("data dir = %q", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// values the file does not mention keep their defaults
	if cfg.Pagination.DefaultLimit != 100 {
		t.Errorf("default limit = %d, want 100", cfg.Pagination.DefaultLimit)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SQLITEDESK_PORT", "7070")
	t.Setenv("SQLITEDESK_DATA_DIR", "/tmp/envdir")
	t.Setenv("SQLITEDESK_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want the env override", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/envdir" {
		t.Errorf("data dir = %q, want the env override", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want the env override", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }},
		{"zero default limit", func(c *Config) { c.Pagination.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Pagination.MaxLimit = 10; c.Pagination.DefaultLimit = 100 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
