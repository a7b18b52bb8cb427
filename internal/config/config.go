package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration, read from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// BookingConfig holds the booking-core knobs.
type BookingConfig struct {
	// HoldTTL is how long a hold blocks its slot before expiring.
	HoldTTL time.Duration
	// TariffCacheTTL bounds staleness of cached price resolutions.
	TariffCacheTTL time.Duration
	// SweepInterval is how often the hold expiry sweeper runs.
	SweepInterval time.Duration
	// LockTTL caps how long a per-court lock may be held.
	LockTTL time.Duration
	// CancelFullRefundHours is the threshold before start for a full refund.
	CancelFullRefundHours int
	// CancelPartialPercent is the refund percentage below the threshold.
	CancelPartialPercent int
}

// Load reads configuration from the environment, after loading .env when
// present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "court_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			HoldTTL:               getDurationEnv("HOLD_TTL", 10*time.Minute),
			TariffCacheTTL:        getDurationEnv("TARIFF_CACHE_TTL", 5*time.Minute),
			SweepInterval:         getDurationEnv("SWEEP_INTERVAL", time.Minute),
			LockTTL:               getDurationEnv("COURT_LOCK_TTL", 10*time.Second),
			CancelFullRefundHours: getIntEnv("CANCEL_FULL_REFUND_HOURS", 24),
			CancelPartialPercent:  getIntEnv("CANCEL_PARTIAL_PERCENTAGE", 50),
		},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the Redis address.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
