package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backend selectors
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	HTTPHost     string
	HTTPPort     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Shutdown
	ShutdownTimeout time.Duration

	// Remote scheme backend
	BackendBaseURL string
	BackendTimeout time.Duration
	HealthTimeout  time.Duration

	// Scheme cache
	CacheBackend string
	CachePath    string

	// Redis (only used when CacheBackend == redis)
	RedisURL         string
	RedisPoolSize    int
	RedisMinIdleConn int
	RedisMaxRetries  int
	RedisDialTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Application metadata
	AppName    string
	AppVersion string
}

// Load loads configuration from the environment, reading a .env file first
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPHost:         getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		ReadTimeout:      getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:     getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:      getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		BackendTimeout:   getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		HealthTimeout:    getEnvDuration("BACKEND_HEALTH_TIMEOUT", 5*time.Second),
		CacheBackend:     getEnv("CACHE_BACKEND", CacheBackendSQLite),
		CachePath:        getEnv("CACHE_PATH", "agrischeme.db"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:    getEnvInt("REDIS_POOL_SIZE", 10),
		RedisMinIdleConn: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
		RedisMaxRetries:  getEnvInt("REDIS_MAX_RETRIES", 3),
		RedisDialTimeout: getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		AppName:          "scheme-matcher",
		AppVersion:       getEnv("APP_VERSION", "dev"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BackendBaseURL); err != nil {
		return fmt.Errorf("invalid BACKEND_BASE_URL: %w", err)
	}

	if c.CacheBackend != CacheBackendSQLite && c.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("invalid cache backend: %s (must be sqlite/redis)", c.CacheBackend)
	}
	if c.CacheBackend == CacheBackendSQLite && c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required for the sqlite cache backend")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.LogLevel)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.HTTPHost + ":" + c.HTTPPort
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		return i
	}
	return defaultVal
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return defaultVal
}
