package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Database.MaxOpenConns = %d, expected 25", cfg.Database.MaxOpenConns)
	}
	if cfg.JWT.Expiration != 24*time.Hour {
		t.Errorf("JWT.Expiration = %v, expected 24h", cfg.JWT.Expiration)
	}
	if cfg.GenAI.Enabled {
		t.Error("GenAI.Enabled = true, expected false by default")
	}
	if cfg.GenAI.Model != "llama3" {
		t.Errorf("GenAI.Model = %q, expected llama3", cfg.GenAI.Model)
	}
	if cfg.Log.Level != "INFO" {
		t.Errorf("Log.Level = %q, expected INFO", cfg.Log.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("SMTP_ENABLED", "false")
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.corp.com, https://b.corp.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, expected 9090", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("Database.MaxOpenConns = %d, expected 50", cfg.Database.MaxOpenConns)
	}
	if cfg.Email.Enabled {
		t.Error("Email.Enabled = true, expected false")
	}
	if cfg.JWT.Expiration != time.Hour {
		t.Errorf("JWT.Expiration = %v, expected 1h", cfg.JWT.Expiration)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.corp.com" {
		t.Errorf("CORS.AllowedOrigins = %v, expected two trimmed origins", cfg.CORS.AllowedOrigins)
	}
}

func TestValidateRequiresSecretsOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() in production without JWT_SECRET expected error, got nil")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	if _, err := Load(); err == nil {
		t.Error("Load() in production without ENCRYPTION_SECRET expected error, got nil")
	}

	t.Setenv("ENCRYPTION_SECRET", "prod-encryption-secret")
	if _, err := Load(); err != nil {
		t.Errorf("Load() with all secrets set error = %v", err)
	}
}
