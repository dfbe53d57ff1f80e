package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("QUERY_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AppEnv != EnvDevelopment {
		t.Errorf("Expected app env %s, got %s", EnvDevelopment, cfg.AppEnv)
	}
	if cfg.HTTPPort != "8000" {
		t.Errorf("Expected port 8000, got %s", cfg.HTTPPort)
	}
	if cfg.QueryTimeout != 10*time.Second {
		t.Errorf("Expected query timeout 10s, got %s", cfg.QueryTimeout)
	}
	if cfg.IsProduction() {
		t.Error("Expected development config not to be production")
	}
}

func TestLoad_ProductionRequiresDatabaseURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DATABASE_URL is missing in production")
	}

	t.Setenv("DATABASE_URL", "host=db user=wms dbname=wms sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load production config: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production config")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unparsable QUERY_TIMEOUT")
	}

	t.Setenv("QUERY_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Error("Expected error for negative QUERY_TIMEOUT")
	}

	t.Setenv("QUERY_TIMEOUT", "")
	t.Setenv("DB_ECHO", "maybe")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unparsable DB_ECHO")
	}
}
