package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "events")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "events")
	t.Setenv("JWT_SECRET", "this-is-a-test-secret-with-32-bytes!")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWTAccessExpiry != 24*time.Hour {
		t.Errorf("JWTAccessExpiry = %v, want 24h", cfg.JWTAccessExpiry)
	}
	if cfg.JWTRefreshExpiry != 168*time.Hour {
		t.Errorf("JWTRefreshExpiry = %v, want 168h", cfg.JWTRefreshExpiry)
	}
	if cfg.ResetTokenExpiry != time.Hour {
		t.Errorf("ResetTokenExpiry = %v, want 1h", cfg.ResetTokenExpiry)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, want disable", cfg.DBSSLMode)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Email.Enabled {
		t.Error("Email.Enabled should default to false")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() should be false by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "2h")
	t.Setenv("RESET_TOKEN_EXPIRY", "not-a-duration")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("FRONTEND_URL", "https://events.example.com/")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("SWAGGER_HOST", "api.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWTAccessExpiry != 2*time.Hour {
		t.Errorf("JWTAccessExpiry = %v, want 2h", cfg.JWTAccessExpiry)
	}
	if cfg.ResetTokenExpiry != time.Hour {
		t.Errorf("ResetTokenExpiry = %v, want fallback 1h", cfg.ResetTokenExpiry)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.FrontendURL != "https://events.example.com" {
		t.Errorf("FrontendURL = %q", cfg.FrontendURL)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() should be true")
	}
	if cfg.SwaggerHost != "api.example.com" {
		t.Errorf("SwaggerHost = %q", cfg.SwaggerHost)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without required variables")
	}
	if !strings.Contains(err.Error(), "DB_HOST") || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error %q should name every missing variable", err)
	}
}

func TestLoad_EmailEnabledRequiresAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_ENABLED", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "RESEND_API_KEY") {
		t.Fatalf("Load() error = %v, want RESEND_API_KEY missing", err)
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "DEBUG", Format: "json"})
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}

	logger = NewLogger(LoggingConfig{Level: "bogus"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", logger.GetLevel())
	}
}
