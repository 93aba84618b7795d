package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Clover   CloverConfig
	Import   ImportConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// CloverConfig holds the Clover REST API settings used by the shift fetch client
type CloverConfig struct {
	BaseURL     string
	MerchantID  string
	AccessToken string
	PageLimit   int
	Timeout     time.Duration
	MaxRetries  int
	RetryWait   time.Duration
}

// ImportConfig controls how shifts are pulled from Clover
type ImportConfig struct {
	Timezone     string
	LookbackDays int
	Concurrency  int
	Interval     time.Duration // 0 disables the scheduled bulk import
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// Clover configuration
	pageLimit, err := strconv.Atoi(getEnv("CLOVER_PAGE_LIMIT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOVER_PAGE_LIMIT: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("CLOVER_TIMEOUT", "25s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOVER_TIMEOUT: %w", err)
	}
	maxRetries, err := strconv.Atoi(getEnv("CLOVER_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOVER_MAX_RETRIES: %w", err)
	}
	retryWait, err := time.ParseDuration(getEnv("CLOVER_RETRY_WAIT", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOVER_RETRY_WAIT: %w", err)
	}

	config.Clover = CloverConfig{
		BaseURL:     strings.TrimRight(getEnv("CLOVER_BASE_URL", ""), "/"),
		MerchantID:  getEnv("CLOVER_MERCHANT_ID", ""),
		AccessToken: getEnv("CLOVER_ACCESS_TOKEN", ""),
		PageLimit:   pageLimit,
		Timeout:     timeout,
		MaxRetries:  maxRetries,
		RetryWait:   retryWait,
	}

	// Import configuration
	lookback, err := strconv.Atoi(getEnv("IMPORT_LOOKBACK_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_LOOKBACK_DAYS: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("IMPORT_CONCURRENCY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_CONCURRENCY: %w", err)
	}

	interval, err := time.ParseDuration(getEnv("IMPORT_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_INTERVAL: %w", err)
	}

	config.Import = ImportConfig{
		Timezone:     getEnv("IMPORT_TIMEZONE", "America/Los_Angeles"),
		LookbackDays: lookback,
		Concurrency:  concurrency,
		Interval:     interval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Info("Configuration loaded",
		"env", config.App.Env,
		"clover_base_url", config.Clover.BaseURL,
		"timezone", config.Import.Timezone,
	)

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}
	if err := c.Clover.Validate(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Import.Timezone); err != nil {
		return fmt.Errorf("IMPORT_TIMEZONE %q is not a valid zone: %w", c.Import.Timezone, err)
	}
	if c.Import.LookbackDays < 1 {
		return fmt.Errorf("IMPORT_LOOKBACK_DAYS must be at least 1")
	}
	if c.Import.Concurrency < 1 {
		return fmt.Errorf("IMPORT_CONCURRENCY must be at least 1")
	}
	if c.Import.Interval < 0 {
		return fmt.Errorf("IMPORT_INTERVAL must not be negative")
	}
	return nil
}

// Validate checks the settings the Clover client cannot run without
func (c CloverConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("CLOVER_BASE_URL is required")
	}
	if c.MerchantID == "" {
		return fmt.Errorf("CLOVER_MERCHANT_ID is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("CLOVER_ACCESS_TOKEN is required")
	}
	if c.PageLimit < 1 {
		return fmt.Errorf("CLOVER_PAGE_LIMIT must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("CLOVER_MAX_RETRIES must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
