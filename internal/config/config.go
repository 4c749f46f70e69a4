package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// APIKey gates the draw endpoints. Health and metrics stay public.
	APIKey string

	// TrustedProxies lists proxy IPs whose X-Forwarded-For header is honoured.
	TrustedProxies []string

	// CatalogPath points at the reward catalog JSON consumed at startup.
	CatalogPath string

	// DefaultMaxCapacity is the inventory cap for players without a stored
	// override.
	DefaultMaxCapacity int

	// SnapshotCacheTTL bounds staleness of cached inventory snapshots used
	// by read-only surfaces.
	SnapshotCacheTTL time.Duration

	// Database pool tuning
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "reward-engine"),
		Version:     getEnv("VERSION", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "rewardengine"),
		CatalogPath: getEnv("CATALOG_PATH", DefaultCatalogPath),
		APIKey:      getEnv("API_KEY", ""),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, trimmed)
			}
		}
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	capacity, err := strconv.Atoi(getEnv("DEFAULT_MAX_CAPACITY", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_CAPACITY value: %w", err)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("DEFAULT_MAX_CAPACITY must be positive, got %d", capacity)
	}
	cfg.DefaultMaxCapacity = capacity

	ttl, err := time.ParseDuration(getEnv("SNAPSHOT_CACHE_TTL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_CACHE_TTL value: %w", err)
	}
	cfg.SnapshotCacheTTL = ttl

	cfg.DBMaxConns = getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns)
	cfg.DBMaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime)
	cfg.DBMaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back to the
// default when unset or unparseable.
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsDuration retrieves a duration environment variable, falling back
// to the default when unset or unparseable.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
