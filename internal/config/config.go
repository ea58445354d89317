package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Generation pipeline configuration
	Generation GenerationConfig

	// Cover image configuration
	Image ImageConfig

	// Upload handling configuration
	Upload UploadConfig

	// Cache configuration
	Cache CacheConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// GenerationConfig holds settings for the AI generation pipeline
type GenerationConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxAttempts  int           // completion retry budget
	BackoffBase  time.Duration // first retry wait; doubles per attempt
	PollInterval time.Duration // media readiness poll cadence
	PollTimeout  time.Duration // bound on the readiness wait
}

// ImageConfig holds cover image generation and storage settings
type ImageConfig struct {
	Model          string
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	PlaceholderURL string
}

// UploadConfig holds upload handling settings
type UploadConfig struct {
	MaxUploadSize int64 // in bytes
	TempDir       string
	MaxConcurrent int // bound on concurrent pipeline runs, 0 = auto
}

// CacheConfig holds feed cache settings
type CacheConfig struct {
	RedisAddr string // empty disables caching
	FeedTTL   time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 300*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "aura_archive"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Generation: GenerationConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", ""),
			Model:        getEnv("GENERATION_MODEL", "gpt-4o"),
			MaxAttempts:  getIntEnv("GENERATION_MAX_ATTEMPTS", 3),
			BackoffBase:  getDurationEnv("GENERATION_BACKOFF_BASE", time.Second),
			PollInterval: getDurationEnv("GENERATION_POLL_INTERVAL", 2*time.Second),
			PollTimeout:  getDurationEnv("GENERATION_POLL_TIMEOUT", 10*time.Minute),
		},
		Image: ImageConfig{
			Model:          getEnv("IMAGE_MODEL", "dall-e-3"),
			S3Bucket:       getEnv("IMAGE_S3_BUCKET", ""),
			S3Region:       getEnv("IMAGE_S3_REGION", "us-east-1"),
			S3Prefix:       getEnv("IMAGE_S3_PREFIX", "auraarchive"),
			PlaceholderURL: getEnv("IMAGE_PLACEHOLDER_URL", "https://placehold.co/600x400?text=Cover"),
		},
		Upload: UploadConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 100*1024*1024), // 100MB
			TempDir:       getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			MaxConcurrent: getIntEnv("PIPELINE_MAX_CONCURRENT", 0),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			FeedTTL:   getDurationEnv("FEED_CACHE_TTL", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Generation.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("GENERATION_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
