package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOSPITAL_DATABASE_HOST.
const EnvPrefix = "hospital"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" envconfig:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" envconfig:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" envconfig:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" envconfig:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" envconfig:"conn_max_lifetime"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
}

type AuthConfig struct {
	// Enabled=false makes every request act as an administrator.
	Enabled     bool   `mapstructure:"enabled"`
	JWTSecret   string `mapstructure:"jwt_secret" envconfig:"jwt_secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"expiry_hours"`
	BcryptCost  int    `mapstructure:"bcrypt_cost" envconfig:"bcrypt_cost"`
}

type RedisConfig struct {
	// URL empty disables event publishing.
	URL          string        `mapstructure:"url"`
	Channel      string        `mapstructure:"channel"`
	MaxRetries   int           `mapstructure:"max_retries" envconfig:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" envconfig:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size" envconfig:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" envconfig:"min_idle_conns"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"cleanup_interval"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hospital")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.issuer", "hospital-scheduling")
	v.SetDefault("auth.expiry_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("redis.channel", "hospital.events")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("metrics.namespace", "hospital")
}

// LoadConfig reads config.yml (path, or the usual search locations), then
// applies HOSPITAL_* environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enabled")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
