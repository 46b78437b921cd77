package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDecode_OverridesOnlyPresentFields(t *testing.T) {
	cfg := Default()

	doc := `
[http]
addr = ":9090"
read_timeout = "2s"

[share]
origin = "https://pets.example.com"
rate_limit = 10
`
	if err := Decode(strings.NewReader(doc), &cfg); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout.Duration != 2*time.Second {
		t.Fatalf("expected read timeout 2s, got %s", cfg.HTTP.ReadTimeout.Duration)
	}
	if cfg.HTTP.WriteTimeout.Duration != 10*time.Second {
		t.Fatalf("write timeout default should survive, got %s", cfg.HTTP.WriteTimeout.Duration)
	}
	if cfg.Share.Origin != "https://pets.example.com" || cfg.Share.RateLimit != 10 {
		t.Fatalf("unexpected share config: %#v", cfg.Share)
	}
}

func TestDecode_RejectsBadDuration(t *testing.T) {
	cfg := Default()
	err := Decode(strings.NewReader("[http]\nread_timeout = \"soon\"\n"), &cfg)
	if err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[database]\ndsn = \"postgres://file\"\n[log]\nlevel = \"debug\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("PORT", "7070")
	t.Setenv("SHARE_ORIGIN", "https://share.example.com/")
	t.Setenv("ALLOW_ALL_CAPABILITIES", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.DSN != "postgres://env" {
		t.Fatalf("env should win over file, got %q", cfg.Database.DSN)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("file value should be kept, got %q", cfg.Log.Level)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected :7070, got %q", cfg.HTTP.Addr)
	}
	if cfg.Share.Origin != "https://share.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Share.Origin)
	}
	if !cfg.Plans.AllowAll {
		t.Fatalf("expected allow-all from env")
	}
}

func TestLoad_InvalidBoolEnv(t *testing.T) {
	t.Setenv("DB_AUTO_MIGRATE", "maybe")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid boolean env")
	}
}
