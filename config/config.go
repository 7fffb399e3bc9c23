package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/roadtodev/rolegate/utils"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Keycloak      KeycloakConfig
	Observability ObservabilityConfig
	Environment   string `validate:"required,oneof=development dev staging production prod"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// KeycloakConfig holds identity provider configuration. The guard stack
// treats the provider as opaque; these values are handed to whatever
// token.Validator implementation is plugged in.
type KeycloakConfig struct {
	BaseURL  string `validate:"required,url"`
	Realm    string `validate:"required"`
	ClientID string `validate:"required"`

	// LoginURL is where redirect-on-deny policies send denied callers.
	LoginURL string `validate:"required"`

	// TokenLeeway is the clock skew tolerated on token time claims.
	TokenLeeway time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"required,oneof=debug info warn error"`
	LogFormat string `validate:"required,oneof=json console"`
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Keycloak: KeycloakConfig{
			BaseURL:     getEnv("KEYCLOAK_BASE_URL", "http://localhost:8081"),
			Realm:       getEnv("KEYCLOAK_REALM", "demo"),
			ClientID:    getEnv("KEYCLOAK_CLIENT_ID", "web-client"),
			LoginURL:    getEnv("LOGIN_URL", "/login"),
			TokenLeeway: getEnvAsDuration("TOKEN_LEEWAY", 30*time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Addr returns the listen address of the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
