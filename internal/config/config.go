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
)

const (
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Source   SourceConfig
	Storage  StorageConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	Timezone       string
}

// SourceConfig selects where attendance rows come from
type SourceConfig struct {
	Type      string
	FilePath  string // relative to Storage.BasePath
	Sheet     string // empty means first sheet
	CacheTTL  time.Duration
	RuleTable string
}

type StorageConfig struct {
	BasePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration. An empty secret disables auth.
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("FRONTEND_URL", "http://localhost:3000"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Bangkok"),
	}

	// Source configuration
	cacheTTL, err := time.ParseDuration(getEnv("SOURCE_CACHE_TTL", "300s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_CACHE_TTL: %w", err)
	}

	config.Source = SourceConfig{
		Type:      strings.ToLower(getEnv("SOURCE_TYPE", SourceXLSX)),
		FilePath:  getEnv("SOURCE_FILE", "attendance.xlsx"),
		Sheet:     getEnv("SOURCE_SHEET", ""),
		CacheTTL:  cacheTTL,
		RuleTable: strings.ToLower(getEnv("RULE_TABLE", "default")),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_PATH", "./data"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceXLSX:
		if c.Source.FilePath == "" {
			return fmt.Errorf("SOURCE_FILE is required for the xlsx source")
		}
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_PATH is required for the xlsx source")
		}
	case SourcePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres source")
		}
	default:
		return fmt.Errorf("SOURCE_TYPE must be %q or %q, got %q", SourceXLSX, SourcePostgres, c.Source.Type)
	}

	if c.Source.CacheTTL < 0 {
		return fmt.Errorf("SOURCE_CACHE_TTL must not be negative")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the display timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AuthEnabled reports whether API tokens are verified.
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
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

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	result := make([]string, 0)
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
