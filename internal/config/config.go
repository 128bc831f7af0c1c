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
	Curlec   CurlecConfig
	Queue    QueueConfig
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
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// CurlecConfig holds credentials and endpoints for the Curlec payment
// gateway. Curlec runs on the Razorpay API surface, so the base URL points
// at Razorpay and every request carries the account header.
type CurlecConfig struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	AccountID     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
}

// QueueConfig holds capture queue processing configuration
type QueueConfig struct {
	BatchSize     int
	MaxRetryCount int
	Interval      time.Duration
	// ReclaimAfter is how long an item may sit in "processing" before the
	// supervisory sweep returns it to "pending".
	ReclaimAfter time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	queueInterval := getEnvAsDuration("CAPTURE_QUEUE_INTERVAL", 3*time.Minute)
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
			DBName:   getEnv("DB_NAME", "marigunting"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Curlec: CurlecConfig{
			BaseURL:       getEnv("CURLEC_API_URL", "https://api.razorpay.com/v1"),
			KeyID:         getEnv("CURLEC_KEY_ID", ""),
			KeySecret:     getEnv("CURLEC_KEY_SECRET", ""),
			AccountID:     getEnv("CURLEC_ACCOUNT_ID", ""),
			WebhookSecret: getEnv("CURLEC_WEBHOOK_SECRET", ""),
			Currency:      getEnv("CURLEC_CURRENCY", "MYR"),
			Timeout:       getEnvAsDuration("CURLEC_HTTP_TIMEOUT", 30*time.Second),
		},
		Queue: QueueConfig{
			BatchSize:     getEnvAsInt("CAPTURE_QUEUE_BATCH_SIZE", 10),
			MaxRetryCount: getEnvAsInt("CAPTURE_QUEUE_MAX_RETRY", 3),
			Interval:      queueInterval,
			ReclaimAfter:  getEnvAsDuration("CAPTURE_QUEUE_RECLAIM_AFTER", 2*queueInterval),
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
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
