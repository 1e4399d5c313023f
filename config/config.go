package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. RedisURL, when set, overrides the host/port
	// fields (managed Redis deployments hand out a single URL).
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session signing secret
	SessionSecret string

	// External recipe API
	SpoonacularAPIKey string

	// Object storage for recipe images; empty bucket disables uploads
	S3Bucket  string
	AWSRegion string

	// Allowed browser origin
	FrontendURL string
}

// LoadConfig builds the configuration for the current environment. Values
// come from environment variables; sensitive values fall back to secret
// files under SECRETS_DIR. In development and test a .env file is loaded
// first when present.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		if err := godotenv.Load(); err == nil {
			log.Println("Loaded environment from .env file")
		}
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            envOrSecret("DB_USER", "db_user", "postgres"),
		DBPassword:        envOrSecret("DB_PASSWORD", "db_password", ""),
		DBName:            getEnv("DB_NAME", "tastebook"),
		DBSSLMode:         getEnv("DB_SSL_MODE", "disable"),
		RedisHost:         getEnv("REDIS_HOST", ""),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     envOrSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		RedisURL:          getEnv("REDIS_URL", ""),
		SessionSecret:     envOrSecret("SESSION_SECRET", "session_secret", ""),
		SpoonacularAPIKey: envOrSecret("SPOONACULAR_API_KEY", "spoonacular_api_key", ""),
		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:         getEnv("AWS_REGION", ""),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN renders the Postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether any Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt reads an integer environment variable with a fallback default.
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// envOrSecret prefers the environment variable, then the secret file, then
// the fallback.
func envOrSecret(envKey, secretName, fallback string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if value := ReadSecret(secretName); value != "" {
		return value
	}
	return fallback
}

// ReadSecret reads a Docker secret from the secrets directory
func ReadSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
