package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CatalogConfig holds the supplier catalog feed settings. Exactly one
// of Path and URL must be set; URL wins when both are.
type CatalogConfig struct {
	Path       string `mapstructure:"path"`
	URL        string `mapstructure:"url"`
	ReloadCron string `mapstructure:"reload_cron"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds catalog matching tunables
type MatchingConfig struct {
	FuzzyThreshold  float64 `mapstructure:"fuzzy_threshold"`
	MaxResults      int     `mapstructure:"max_results"`
	StatsWarmupCron string  `mapstructure:"stats_warmup_cron"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/matlens/")

	// Environment variable settings
	v.SetEnvPrefix("MATLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.reload_cron", "0 5 * * *")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "10m")

	// Matching defaults
	v.SetDefault("matching.fuzzy_threshold", 0.70)
	v.SetDefault("matching.max_results", 5)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set MATLENS_DATABASE_DSN)")
	}

	if config.Catalog.Path == "" && config.Catalog.URL == "" {
		return fmt.Errorf("catalog path or URL is required (set MATLENS_CATALOG_PATH or MATLENS_CATALOG_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if t := config.Matching.FuzzyThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching fuzzy threshold must be in (0, 1], got: %v", t)
	}

	return nil
}
