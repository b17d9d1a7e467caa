// Package config loads runtime settings and analyst-authored input
// files: environment variables for infrastructure, YAML for scenario
// and peer sets, Hjson for expert assumption bundles.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Settings carries infrastructure configuration from the environment.
type Settings struct {
	DatabaseURL string
	LogLevel    string
}

// LoadSettings reads a .env file when present and falls back to the
// process environment. A missing .env is not an error.
func LoadSettings() Settings {
	godotenv.Load()

	return Settings{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
