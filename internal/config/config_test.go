package config

import (
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("PLATFORM_BASE_URL", "http://platform.local")
	t.Setenv("PLATFORM_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Session.CookieName != "campusgate_session" {
		t.Errorf("Session.CookieName = %q", cfg.Session.CookieName)
	}
	if cfg.Session.IdleTimeout.Minutes() != 30 {
		t.Errorf("Session.IdleTimeout = %v, want 30m", cfg.Session.IdleTimeout)
	}
	if cfg.RateLimit.LoginAttempts != 5 {
		t.Errorf("RateLimit.LoginAttempts = %d, want 5", cfg.RateLimit.LoginAttempts)
	}
}

func TestLoadRequiresDBPassword(t *testing.T) {
	t.Setenv("PLATFORM_BASE_URL", "http://platform.local")
	t.Setenv("PLATFORM_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_PASSWORD unset")
	}
}

func TestLoadRejectsShortTokenSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("PLATFORM_TOKEN_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short token secret")
	}
}

func TestLoadRejectsPartialBootstrap(t *testing.T) {
	setRequired(t)
	t.Setenv("BOOTSTRAP_EMAIL", "root@example.edu")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when bootstrap hash missing")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p",
		Database: "campusgate", SSLMode: "disable",
	}
	want := "postgres://u:p@db:5432/campusgate?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
