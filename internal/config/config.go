package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the marketboard application.
// It is loaded once at process start and treated as immutable after.
type Config struct {
	// Bybit market API
	BybitAPIKey    string        `mapstructure:"bybit_api_key"`
	BybitSecretKey string        `mapstructure:"bybit_secret_key"`
	BybitBaseURL   string        `mapstructure:"bybit_base_url"`
	Category       string        `mapstructure:"category"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`

	// Storage; memory store is used when no DSN is configured
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// Optional listing cache
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	// Web server
	ListenAddr string `mapstructure:"listen_addr"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
//
// Expected environment variables (all optional):
//   - BYBIT_API_KEY / BYBIT_SECRET_KEY (public endpoint works without them)
//   - BYBIT_BASE_URL
//   - CATEGORY
//   - REQUEST_TIMEOUT / REQUESTS_PER_SEC
//   - POSTGRES_DSN
//   - REDIS_ADDR / REDIS_PASSWORD / REDIS_DB / CACHE_TTL
//   - LISTEN_ADDR
//   - LOG_LEVEL / LOG_FORMAT
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("bybit_base_url", "https://api.bybit.com")
	v.SetDefault("category", "spot")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("requests_per_sec", 5.0)
	v.SetDefault("cache_ttl", 10*time.Second)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.marketboard")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("bybit_api_key", "BYBIT_API_KEY")
	v.BindEnv("bybit_secret_key", "BYBIT_SECRET_KEY")
	v.BindEnv("bybit_base_url", "BYBIT_BASE_URL")
	v.BindEnv("category", "CATEGORY")
	v.BindEnv("request_timeout", "REQUEST_TIMEOUT")
	v.BindEnv("requests_per_sec", "REQUESTS_PER_SEC")
	v.BindEnv("postgres_dsn", "POSTGRES_DSN")
	v.BindEnv("redis_addr", "REDIS_ADDR")
	v.BindEnv("redis_password", "REDIS_PASSWORD")
	v.BindEnv("redis_db", "REDIS_DB")
	v.BindEnv("cache_ttl", "CACHE_TTL")
	v.BindEnv("listen_addr", "LISTEN_ADDR")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("log_format", "LOG_FORMAT")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.BybitBaseURL == "" {
		return nil, fmt.Errorf("bybit_base_url must not be empty")
	}
	if config.Category == "" {
		return nil, fmt.Errorf("category must not be empty")
	}
	if config.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request_timeout must be positive, got %s", config.RequestTimeout)
	}

	return config, nil
}
