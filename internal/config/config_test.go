package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr == "" {
		t.Fatal("addr default missing")
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver = %q, want memory default", cfg.Storage.Driver)
	}
	if cfg.EscalationInterval() != time.Hour {
		t.Fatalf("interval = %v, want 1h default", cfg.EscalationInterval())
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9999"
  base_url: "https://haven.example"
storage:
  driver: postgres
  dsn: "postgres://file-dsn"
escalation:
  interval: "30m"
  page_size: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	// El entorno pisa al YAML.
	t.Setenv("DATABASE_URL", "postgres://env-dsn")
	t.Setenv("SITE_URL", "https://env.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.DSN != "postgres://env-dsn" {
		t.Fatalf("dsn = %q, env must win", cfg.Storage.DSN)
	}
	if cfg.Server.BaseURL != "https://env.example" {
		t.Fatalf("base url = %q, env must win", cfg.Server.BaseURL)
	}
	if cfg.EscalationInterval() != 30*time.Minute {
		t.Fatalf("interval = %v", cfg.EscalationInterval())
	}
	if cfg.Escalation.PageSize != 25 {
		t.Fatalf("page size = %d", cfg.Escalation.PageSize)
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Escalation.Interval = "not-a-duration"
	if cfg.EscalationInterval() != time.Hour {
		t.Fatalf("interval = %v, want fallback", cfg.EscalationInterval())
	}
	cfg.Auth.AccessTTL = "-5m"
	if cfg.AccessTTL() != 24*time.Hour {
		t.Fatalf("ttl = %v, want fallback", cfg.AccessTTL())
	}
}
