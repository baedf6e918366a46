package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	AppEnv      string
	DatabaseURL string
	ClientURL   string

	// Signing secrets are distinct per token class so that leaking one
	// cannot mint the other class.
	AccessTokenSecret  string
	RefreshTokenSecret string
	EmailVerifySecret  string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EmailVerifyTTL  time.Duration
	ResetTokenTTL   time.Duration

	ResendAPIKey string
	EmailFrom    string

	MidtransServerKey string

	GoogleClientID     string
	GoogleClientSecret string
	GithubClientID     string
	GithubClientSecret string
}

// Load reads configuration from the environment, loading a local .env file
// first when not running in production.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Warn(".env file not found, relying on environment")
		}
	}

	cfg := &Config{
		Port:        getenv("PORT", "8000"),
		AppEnv:      getenv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ClientURL:   getenv("CLIENT_URL", "http://localhost:3000"),

		AccessTokenSecret:  os.Getenv("JWT_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		EmailVerifySecret:  os.Getenv("EMAIL_VERIFICATION_SECRET"),

		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EmailVerifyTTL:  24 * time.Hour,
		ResetTokenTTL:   time.Hour,

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getenv("EMAIL_FROM", "Shop <onboarding@resend.dev>"),

		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GithubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GithubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" || cfg.EmailVerifySecret == "" {
		return nil, errors.New("JWT_SECRET, REFRESH_TOKEN_SECRET and EMAIL_VERIFICATION_SECRET are required")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
