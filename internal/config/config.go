// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"restopos/kit/db"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Gateway  GatewayConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// GatewayConfig holds payment provider settings.
type GatewayConfig struct {
	CheckoutBaseURL string
	PushBaseURL     string
	SecretKey       string
	CallbackURL     string
	VerifyTimeout   time.Duration
	Fake            bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Migrations bool
	AuditPath  string
	HealthTTL  time.Duration
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         getEnv("ADDR", ":8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: db.Config{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "restopos.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "restopos"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "restopos"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Gateway: GatewayConfig{
			CheckoutBaseURL: getEnv("GATEWAY_CHECKOUT_URL", "https://api.paystack.co"),
			PushBaseURL:     getEnv("GATEWAY_PUSH_URL", ""),
			SecretKey:       getEnv("GATEWAY_SECRET_KEY", ""),
			CallbackURL:     getEnv("GATEWAY_CALLBACK_URL", "http://localhost:8080/payment-callback"),
			VerifyTimeout:   time.Duration(getEnvInt("GATEWAY_VERIFY_TIMEOUT", 10)) * time.Second,
			Fake:            getEnvBool("GATEWAY_FAKE", true),
		},
		App: AppConfig{
			Migrations: getEnvBool("MIGRATIONS", true),
			AuditPath:  getEnv("AUDIT_PATH", ""),
			HealthTTL:  time.Duration(getEnvInt("HEALTH_TTL", 5)) * time.Second,
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
