package config

import (
	"os"
	"testing"
)

func clearEnv() {
	os.Unsetenv("APP_PORT")
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("APP_ENV")
	os.Unsetenv("ACCESS_TOKEN_TTL_MINUTES")
	os.Unsetenv("REFRESH_TOKEN_TTL_DAYS")
	os.Unsetenv("MAX_MESSAGE_BYTES")
	os.Unsetenv("HISTORY_LIMIT")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTSecret != "dev-secret-change-me" {
		t.Errorf("JWTSecret = %q, want default", cfg.JWTSecret)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
	if cfg.AccessTokenTTLMinutes != 15 {
		t.Errorf("AccessTokenTTLMinutes = %d, want 15", cfg.AccessTokenTTLMinutes)
	}
	if cfg.RefreshTokenTTLDays != 7 {
		t.Errorf("RefreshTokenTTLDays = %d, want 7", cfg.RefreshTokenTTLDays)
	}
	if cfg.MaxMessageBytes != 4096 {
		t.Errorf("MaxMessageBytes = %d, want 4096", cfg.MaxMessageBytes)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()
	os.Setenv("APP_PORT", "9999")
	os.Setenv("JWT_SECRET", "prod-secret")
	os.Setenv("APP_ENV", "prod")
	os.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	os.Setenv("MAX_MESSAGE_BYTES", "1024")
	defer clearEnv()

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Errorf("JWTSecret = %q, want prod-secret", cfg.JWTSecret)
	}
	if cfg.Env != "prod" {
		t.Errorf("Env = %q, want prod", cfg.Env)
	}
	if cfg.AccessTokenTTLMinutes != 30 {
		t.Errorf("AccessTokenTTLMinutes = %d, want 30", cfg.AccessTokenTTLMinutes)
	}
	if cfg.MaxMessageBytes != 1024 {
		t.Errorf("MaxMessageBytes = %d, want 1024", cfg.MaxMessageBytes)
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	clearEnv()
	os.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	defer clearEnv()

	cfg := Load()
	if cfg.AccessTokenTTLMinutes != 15 {
		t.Errorf("AccessTokenTTLMinutes = %d, want default 15 on bad input", cfg.AccessTokenTTLMinutes)
	}
}
