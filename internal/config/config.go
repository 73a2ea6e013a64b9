package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Engine    EngineConfig
	Scheduler SchedulerConfig
	Market    MarketConfig
	Timezone  string // IANA zone used when rendering dates in the CLI
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// EngineConfig controls the position summary engine.
type EngineConfig struct {
	Workers int // goroutines used to summarize positions
}

// SchedulerConfig holds cron expressions (with seconds) for background jobs.
type SchedulerConfig struct {
	Enabled                   bool
	PriceRefreshSchedule      string
	PositionReconcileSchedule string
}

// MarketConfig holds market data settings.
type MarketConfig struct {
	YahooBaseURL string
	HistoryDays  int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/pip.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", false),
		},
		Engine: EngineConfig{
			Workers: getEnvAsInt("ENGINE_WORKERS", 4),
		},
		Scheduler: SchedulerConfig{
			Enabled:                   getEnvAsBool("SCHEDULER_ENABLED", true),
			PriceRefreshSchedule:      getEnv("PRICE_REFRESH_SCHEDULE", "0 30 22 * * MON-FRI"),
			PositionReconcileSchedule: getEnv("POSITION_RECONCILE_SCHEDULE", "@every 15m"),
		},
		Market: MarketConfig{
			YahooBaseURL: getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
			HistoryDays:  getEnvAsInt("PRICE_HISTORY_DAYS", 5),
		},
		Timezone: getEnv("APP_TIMEZONE", "Europe/Rome"),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("DB_PATH is required")
	}
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("ENGINE_WORKERS must be positive, got %d", c.Engine.Workers)
	}
	if c.Market.HistoryDays <= 0 {
		return fmt.Errorf("PRICE_HISTORY_DAYS must be positive, got %d", c.Market.HistoryDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured display timezone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
