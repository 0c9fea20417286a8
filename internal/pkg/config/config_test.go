package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY": validKey,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverPostgres || cfg.PasswordPolicy != "strict" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.TTL != 24*time.Hour || cfg.JWT.Issuer != "task-manager-api" {
		t.Fatalf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.IsDevelopment() || cfg.DetailedErrors {
		t.Fatalf("unexpected env flags: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY":         validKey,
		"ENV":             "production",
		"STORE_DRIVER":    "mongo",
		"ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"TOKEN_TTL":       "2h",
		"DETAILED_ERRORS": "true",
		"REDIS_ADDR":      "",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDevelopment() || cfg.StoreDriver != DriverMongo || !cfg.DetailedErrors {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.JWT.TTL != 2*time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsShortKey(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY": "too-short",
	}))
	if err == nil || !strings.Contains(err.Error(), "JWT_KEY") {
		t.Fatalf("expected JWT_KEY error, got %v", err)
	}
}

func TestLoad_RejectsMissingKey(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatal("expected error without JWT_KEY")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Key: validKey}, StoreDriver: "sqlite", PasswordPolicy: "strict"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER error, got %v", err)
	}
}
