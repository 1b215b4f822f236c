package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/medagenda/booking-api/internal/repository/localstore"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig selects the namespace backend holding the clinic collections.
type StoreConfig struct {
	Backend  string      `mapstructure:"backend"` // memory, file or redis
	FilePath string      `mapstructure:"file_path" split_words:"true"`
	Redis    RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	KeyPrefix    string        `mapstructure:"key_prefix" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

type SweepConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type BookingConfig struct {
	HorizonDays int `mapstructure:"horizon_days" split_words:"true"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
	Booking   BookingConfig   `mapstructure:"booking"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LogLevel  string          `mapstructure:"log_level" split_words:"true"`
}

// LoadConfig reads config.yml when present and applies BOOKING_* environment
// overrides on top. A missing file falls back to defaults, so the memory
// backend runs with zero configuration.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("booking", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("store.file_path", "data/clinic.json")
	viper.SetDefault("store.redis.key_prefix", "booking:")
	viper.SetDefault("store.redis.max_retries", 3)
	viper.SetDefault("store.redis.retry_backoff", "100ms")
	viper.SetDefault("store.redis.pool_size", 10)
	viper.SetDefault("store.redis.min_idle_conns", 2)
	viper.SetDefault("sweep.interval", "1m")
	viper.SetDefault("booking.horizon_days", 21)
	viper.SetDefault("rate_limit.requests_per_second", 10.0)
	viper.SetDefault("rate_limit.burst", 20)
	viper.SetDefault("log_level", "info")
}

// ToRedisConfig converts the config block into the store's connection knobs.
func (c *RedisConfig) ToRedisConfig() localstore.RedisConfig {
	return localstore.RedisConfig{
		URL:          c.URL,
		KeyPrefix:    c.KeyPrefix,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
