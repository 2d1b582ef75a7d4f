// Package config provides configuration for the application
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Password PasswordConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds access token settings
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// PasswordConfig holds password hashing settings
type PasswordConfig struct {
	HashCost int
}

// Load reads configuration from the optional .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	var err error

	// Database configuration
	if cfg.Database.Host, err = requiredEnv("DB_HOST"); err != nil {
		return nil, err
	}
	dbPortStr, err := requiredEnv("DB_PORT")
	if err != nil {
		return nil, err
	}
	if cfg.Database.Port, err = strconv.Atoi(dbPortStr); err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	if cfg.Database.User, err = requiredEnv("DB_USER"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requiredEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.DBName, err = requiredEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = strconv.Atoi(envOrDefault("SERVER_PORT", "8080")); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	// Logging configuration
	cfg.Logging.Level = envOrDefault("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	if cfg.JWT.Secret, err = requiredEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.JWT.TokenExpiry, err = time.ParseDuration(envOrDefault("JWT_TOKEN_EXPIRY", "1h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_EXPIRY: %w", err)
	}
	if cfg.JWT.TokenExpiry <= 0 {
		return nil, fmt.Errorf("JWT_TOKEN_EXPIRY must be positive")
	}

	// Password hashing configuration
	cfg.Password.HashCost = bcrypt.DefaultCost
	if costStr := os.Getenv("PASSWORD_HASH_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PASSWORD_HASH_COST: %w", err)
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("PASSWORD_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
		cfg.Password.HashCost = cost
	}

	return cfg, nil
}

// DSN returns the database connection string, or an empty string when no host is configured
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

func requiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins splits a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
