package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads database settings for integration tests from TEST_DB_* variables.
// Missing variables leave the config empty so DSN returns "" and tests can skip.
func LoadTestConfig() (*Config, error) {
	// The .env file is optional, try the repository root relative to test/integration too
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	keys := []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"}
	for _, key := range keys {
		if os.Getenv(key) == "" {
			return cfg, nil
		}
	}

	port, err := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	cfg.Database = DatabaseConfig{
		Host:     os.Getenv("TEST_DB_HOST"),
		Port:     port,
		User:     os.Getenv("TEST_DB_USER"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		DBName:   os.Getenv("TEST_DB_NAME"),
	}
	return cfg, nil
}
