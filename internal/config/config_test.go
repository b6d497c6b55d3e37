package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultRequiresSecret(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing secret to fail validation")
	}
	cfg.Auth.Disabled = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with auth disabled: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example;https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Auth.TTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.Auth.TTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 || cfg.RateLimit.Burst != 40 {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if !cfg.Database.AutoMigrate || cfg.Database.Driver != "postgres" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := []byte(`
server:
  port: 7070
auth:
  secret: from-file
logging:
  format: json
`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Auth.Secret != "from-file" || cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("overlay not applied: %+v %+v", cfg.Auth, cfg.Logging)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"port":       func(c *Config) { c.Server.Port = 70000 },
		"log format": func(c *Config) { c.Logging.Format = "xml" },
		"ttl":        func(c *Config) { c.Auth.TTL = 0 },
		"rate":       func(c *Config) { c.RateLimit.Burst = -1 },
		"driverless": func(c *Config) { c.Database.DSN = "postgres://x"; c.Database.Driver = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.Secret = "s"
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
