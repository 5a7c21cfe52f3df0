package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	SessionDuration time.Duration
	TokenSecret     string
	TokenDuration   time.Duration

	// Answer provider endpoint; empty disables the tutor routes
	TutorProviderURL string
	TutorTimeout     time.Duration

	// Email (password reset) via Amazon SES; empty from-address disables it
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./mentraiq.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:  getDurationEnv("SESSION_DURATION", 24*time.Hour),
		TokenSecret:      getEnv("TOKEN_SECRET", "development-secret-change-me"),
		TokenDuration:    getDurationEnv("TOKEN_DURATION", 72*time.Hour),
		TutorProviderURL: getEnv("TUTOR_PROVIDER_URL", ""),
		TutorTimeout:     getDurationEnv("TUTOR_TIMEOUT", 30*time.Second),
		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "MentraIQ"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:            getBoolEnv("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable (e.g. "24h") or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s: %q, using default", key, value)
		return defaultValue
	}
	return d
}

// getBoolEnv reads a boolean environment variable or returns a default
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
