package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Transfer TransferConfig
}

// AuthConfig holds the bearer-token verification key. Token issuance is
// the identity service's job; this core only verifies.
type AuthConfig struct {
	JWTSecret string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// TransferConfig holds the funds-transfer and payment-request knobs
type TransferConfig struct {
	// RequestTTL is how long a new payment request stays actionable
	RequestTTL time.Duration
	// EditWindow is the fresh expiry set when a pending request is edited
	EditWindow time.Duration
	// SweepInterval is how often the expiry sweeper ticks
	SweepInterval time.Duration
	// SweepBatchSize caps how many requests one sweep tick may expire
	SweepBatchSize int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "satschat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-this-in-production"),
		},
		Transfer: TransferConfig{
			RequestTTL:     getEnvAsDuration("REQUEST_TTL", 24*time.Hour),
			EditWindow:     getEnvAsDuration("REQUEST_EDIT_WINDOW", 60*time.Second),
			SweepInterval:  getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", time.Minute),
			SweepBatchSize: getEnvAsInt("EXPIRY_SWEEP_BATCH", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
