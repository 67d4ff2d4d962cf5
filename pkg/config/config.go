package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the pipeline
// SSOT: every environment variable is read here and nowhere else
type Config struct {
	Env string // development, staging, production

	// Data locations
	DataDir    string // directory holding the raw snapshot files
	ParquetDir string // directory for bronze/silver/gold parquet exports

	// AsOfDate anchors every recency/tenure/trend feature for a run.
	// Format: 2006-01-02. Empty means "today at midnight UTC".
	AsOfDate string

	// Hourly consumption is processed in chunks of this many readings.
	ConsumptionChunkSize int

	// Database
	Database DatabaseConfig

	// Redis (run-manifest cache)
	Redis RedisConfig

	// NLP enrichment service
	NLP NLPConfig

	// API server
	APIPort string

	// Scheduler
	PipelineCron string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NLPConfig holds the external intent/sentiment service configuration.
// The pipeline must run with the service disabled: enrichment columns are
// simply absent and the dependent features are omitted downstream.
type NLPConfig struct {
	BaseURL        string
	Enabled        bool
	RequestsPerSec float64
	Timeout        time.Duration
}

// Load reads configuration from environment variables
// SSOT: this function is the only caller of os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		DataDir:    getEnv("DATA_DIR", "data"),
		ParquetDir: getEnv("PARQUET_DIR", "data/layers"),

		AsOfDate:             getEnv("AS_OF_DATE", ""),
		ConsumptionChunkSize: getEnvAsInt("CONSUMPTION_CHUNK_SIZE", 250000),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "churnpipe"),
			User:            getEnv("DB_USER", "churnpipe"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		NLP: NLPConfig{
			BaseURL:        getEnv("NLP_BASE_URL", ""),
			Enabled:        getEnvAsBool("NLP_ENABLED", false),
			RequestsPerSec: getEnvAsFloat("NLP_REQUESTS_PER_SEC", 5.0),
			Timeout:        getEnvAsDuration("NLP_TIMEOUT", "30s"),
		},

		APIPort: getEnv("API_PORT", "8093"),

		PipelineCron: getEnv("PIPELINE_CRON", "0 3 * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// AsOf parses the configured as-of date, defaulting to today at midnight UTC.
func (c *Config) AsOf() (time.Time, error) {
	if c.AsOfDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", c.AsOfDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid AS_OF_DATE %q: %w", c.AsOfDate, err)
	}
	return t, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.ConsumptionChunkSize <= 0 {
		return fmt.Errorf("CONSUMPTION_CHUNK_SIZE must be positive")
	}

	if c.AsOfDate != "" {
		if _, err := time.Parse("2006-01-02", c.AsOfDate); err != nil {
			return fmt.Errorf("AS_OF_DATE must be YYYY-MM-DD: %w", err)
		}
	}

	if c.NLP.Enabled && c.NLP.BaseURL == "" {
		return fmt.Errorf("NLP_BASE_URL is required when NLP_ENABLED=true")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
