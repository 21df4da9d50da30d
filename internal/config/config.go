// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"share-ledger/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort    string
	JWTSecret     string
	TokenDuration time.Duration
	DB            db.Config
}

// LoadConfig loads configuration from environment variables, reading an
// optional .env file first. It returns an AppConfig instance or an error if
// any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// Not an error if missing; real environments set vars directly.
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-me")

	tokenDuration := 24 * time.Hour
	if raw := os.Getenv("TOKEN_DURATION"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_DURATION: %w", err)
		}
		tokenDuration = parsed
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return &AppConfig{
		ServerPort:    serverPort,
		JWTSecret:     jwtSecret,
		TokenDuration: tokenDuration,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "shareledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
