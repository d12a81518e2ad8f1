package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("CHANNEL_POOL_SIZE", "")

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.ChannelPoolSize != 10 {
		t.Errorf("ChannelPoolSize = %d, want 10", cfg.ChannelPoolSize)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CHANNEL_POOL_SIZE", "not-a-number")
	t.Setenv("DATABASE_URL", "file::memory:")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.ChannelPoolSize != 10 {
		t.Errorf("bad int should fall back to default, got %d", cfg.ChannelPoolSize)
	}
	if cfg.DatabaseURL != "file::memory:" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", DatabaseURL: "file::memory:"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail")
	}
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.DBDriver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}
