package config

import (
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseURL != "./taskmanager.db" {
		t.Fatalf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d, want 12", cfg.BcryptCost)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("allowed origins = %v", cfg.AllowedOrigins)
	}
	if cfg.IsProduction() {
		t.Fatal("expected development by default")
	}
	if cfg.HealthCheckSchedule != "@every 30s" {
		t.Fatalf("health check schedule = %q", cfg.HealthCheckSchedule)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017/tasks")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("APP_ENV", "Production")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.ServerPort)
	}
	if cfg.DatabaseURL != "mongodb://localhost:27017/tasks" {
		t.Fatalf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost = %d, want 10", cfg.BcryptCost)
	}
	want := []string{"https://a.example", "https://b.example"}
	if strings.Join(cfg.AllowedOrigins, "|") != strings.Join(want, "|") {
		t.Fatalf("allowed origins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "short secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "cost too low", env: map[string]string{"JWT_SECRET": testSecret, "BCRYPT_COST": "1"}},
		{name: "cost too high", env: map[string]string{"JWT_SECRET": testSecret, "BCRYPT_COST": "40"}},
		{name: "bad port", env: map[string]string{"JWT_SECRET": testSecret, "PORT": "http"}},
		{name: "port out of range", env: map[string]string{"JWT_SECRET": testSecret, "PORT": "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Parse(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
