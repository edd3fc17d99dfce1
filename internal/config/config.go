package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Redis    RedisConfig
	Quotes   QuotesConfig
	Monitor  MonitorConfig
	CORS     CORSConfig
	Log      LogConfig
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

// StoreConfig selects and tunes the position store backend.
type StoreConfig struct {
	Backend       string // "sqlite" or "redis"
	Key           string // Key the serialized position list is stored under
	EncryptionKey string // Optional fernet key for at-rest encryption
	MaxRetries    int    // Optimistic update attempts before giving up
}

// RedisConfig holds Redis connection settings, used when Store.Backend is "redis".
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QuotesConfig holds quote provider settings
type QuotesConfig struct {
	MarketSuffix string
	Concurrency  int
	Timeout      time.Duration
}

// MonitorConfig holds settings for the background threshold monitor
type MonitorConfig struct {
	Enabled          bool
	Interval         time.Duration
	SuppressRepeats  bool
	NotifyRecipients []string
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

// Backends supported by the position store.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"
)

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	maxRetries, err := getEnvInt("STORE_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("QUOTE_CONCURRENCY", 5)
	if err != nil {
		return nil, err
	}
	quoteTimeout, err := getEnvDuration("QUOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := getEnvDuration("MONITOR_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	monitorEnabled, err := getEnvBool("MONITOR_ENABLED", true)
	if err != nil {
		return nil, err
	}
	suppress, err := getEnvBool("MONITOR_SUPPRESS_REPEATS", false)
	if err != nil {
		return nil, err
	}
	pretty, err := getEnvBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_monitor.db"),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSQLite)),
			Key:           getEnv("STORE_KEY", "portfolio"),
			EncryptionKey: os.Getenv("STORE_ENCRYPTION_KEY"),
			MaxRetries:    maxRetries,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Quotes: QuotesConfig{
			MarketSuffix: getEnv("QUOTE_MARKET_SUFFIX", ".TO"),
			Concurrency:  concurrency,
			Timeout:      quoteTimeout,
		},
		Monitor: MonitorConfig{
			Enabled:          monitorEnabled,
			Interval:         interval,
			SuppressRepeats:  suppress,
			NotifyRecipients: splitList(getEnv("MONITOR_NOTIFY_RECIPIENTS", "")),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
	}

	if origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS")); len(origins) > 0 {
		config.CORS.AllowedOrigins = origins
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreBackendSQLite, StoreBackendRedis:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.MaxRetries < 1 {
		return fmt.Errorf("STORE_MAX_RETRIES must be at least 1, got %d", c.Store.MaxRetries)
	}
	if c.Quotes.Concurrency < 1 {
		return fmt.Errorf("QUOTE_CONCURRENCY must be at least 1, got %d", c.Quotes.Concurrency)
	}
	if c.Monitor.Interval < time.Second {
		return fmt.Errorf("MONITOR_INTERVAL must be at least 1s, got %s", c.Monitor.Interval)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
