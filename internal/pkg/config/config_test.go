package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("env = %q, want development", cfg.Env)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access ttl = %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 0 {
		t.Errorf("refresh ttl should default to zero (derived later), got %v", cfg.RefreshTokenTTL)
	}
	if cfg.StrictForbidden {
		t.Error("strict forbidden must be opt-in")
	}
	if cfg.Postgres.MaxConns != 10 || !cfg.Postgres.Migrate {
		t.Errorf("unexpected postgres defaults: %+v", cfg.Postgres)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":            "s3cret",
		"ENV":                   "production",
		"ACCESS_TOKEN_TTL":      "5m",
		"REFRESH_TOKEN_TTL":     "1h",
		"HTTP_STRICT_FORBIDDEN": "true",
		"DATABASE_URL":          "postgres://u:p@db:5432/app",
		"DB_MIGRATE":            "false",
		"REDIS_DB":              "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
	if cfg.AccessTokenTTL != 5*time.Minute || cfg.RefreshTokenTTL != time.Hour {
		t.Errorf("ttl = %v / %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if !cfg.StrictForbidden {
		t.Error("expected strict forbidden")
	}
	if cfg.Postgres.URL != "postgres://u:p@db:5432/app" || cfg.Postgres.Migrate {
		t.Errorf("unexpected postgres config: %+v", cfg.Postgres)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("redis db = %d", cfg.Redis.DB)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := Load(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatal("expected an error when JWT_SECRET is missing")
	}
}
