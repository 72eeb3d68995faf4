package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	apperrors "gennit/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string // empty selects the server's default database

	// Voting
	VoteTimeout       time.Duration // Upper bound on a single vote transaction
	ConnectMaxRetries int           // Attempts at verifying Neo4j connectivity on startup
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
		Neo4jURI:          os.Getenv("NEO4J_URI"),
		Neo4jUser:         os.Getenv("NEO4J_USER"),
		Neo4jPassword:     os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase:     getEnv("NEO4J_DATABASE", ""),
		VoteTimeout:       time.Duration(getEnvInt("VOTE_TIMEOUT_MS", 5000)) * time.Millisecond,
		ConnectMaxRetries: getEnvInt("CONNECT_MAX_RETRIES", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.VoteTimeout <= 0 {
		return fmt.Errorf("VOTE_TIMEOUT_MS must be positive")
	}
	if c.ConnectMaxRetries < 0 {
		return fmt.Errorf("CONNECT_MAX_RETRIES cannot be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
