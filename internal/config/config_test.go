package config

import (
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("BODY_LIMIT_MB", "5")
	t.Setenv("JWT_EXPIRES_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("JWT_SECRET", "")

	cfg := LoadEnv()
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
	if cfg.BodyLimitBytes() != 5*1024*1024 {
		t.Errorf("body limit = %d", cfg.BodyLimitBytes())
	}
	if cfg.JWT.Expires != 2*time.Hour {
		t.Errorf("expires = %v", cfg.JWT.Expires)
	}
	if got := cfg.CORS.AllowOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("origins = %q", got)
	}
	if cfg.Database().MaxOpenConns != 50 || cfg.Database().Debug {
		t.Errorf("database = %+v", cfg.Database())
	}
	if cfg.EnsureSecret() {
		t.Error("production without a secret must fail")
	}
}

func TestEnsureSecretDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg := LoadEnv()
	if !cfg.EnsureSecret() || cfg.JWT.Secret != defaultDevSecret {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
}
