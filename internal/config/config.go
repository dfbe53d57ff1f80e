package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultSQLitePath    = "./local_dev.db"
	defaultAdminPassword = "0000"
)

type Config struct {
	AppEnv       string
	HTTPPort     string
	DatabaseDSN  string // PostgreSQL, used when AppEnv is production
	SQLitePath   string // used in every other environment
	DBEcho       bool
	CORSOrigins  string
	RateLimit    string // ulule formatted rate ("100-M"), empty disables
	QueryTimeout time.Duration

	// Front end
	WebPort       string
	APIBaseURL    string
	JWTSecret     string
	AdminUser     string
	AdminPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("QUERY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUERY_TIMEOUT: %w", err)
	}
	echo, err := strconv.ParseBool(getEnv("DB_ECHO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ECHO: %w", err)
	}

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", EnvDevelopment),
		HTTPPort:      getEnv("HTTP_PORT", "8000"),
		DatabaseDSN:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", defaultSQLitePath),
		DBEcho:        echo,
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimit:     getEnv("RATE_LIMIT", ""),
		QueryTimeout:  timeout,
		WebPort:       getEnv("WEB_PORT", "5000"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://127.0.0.1:8000/api/v1"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminUser:     getEnv("ADMIN_USER", "Admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
	}

	if cfg.IsProduction() && cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("APP_ENV=production requires DATABASE_URL")
	}
	if cfg.QueryTimeout <= 0 {
		return nil, fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", cfg.QueryTimeout)
	}

	if !cfg.IsProduction() && cfg.SQLitePath == defaultSQLitePath {
		log.Println("[WARN] Using SQLite database " + defaultSQLitePath + " (development mode)")
	}
	if cfg.AdminPassword == defaultAdminPassword {
		log.Println("[WARN] ADMIN_PASSWORD is the default value, set your own for production.")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
