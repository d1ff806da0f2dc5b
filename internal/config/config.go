package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-backed setting the API needs. Load fails
// fast on the two values the process cannot run without.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	CORSOrigin  string
	Env         string

	MailAPIURL string
	MailAPIKey string
	MailFrom   string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Port:        strings.TrimSpace(os.Getenv("PORT")),
		CORSOrigin:  strings.TrimSpace(os.Getenv("CORS_ORIGIN")),
		Env:         strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))),
		MailAPIURL:  strings.TrimSpace(os.Getenv("MAIL_API_URL")),
		MailAPIKey:  strings.TrimSpace(os.Getenv("MAIL_API_KEY")),
		MailFrom:    strings.TrimSpace(os.Getenv("MAIL_FROM")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	return cfg, nil
}
