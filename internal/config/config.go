package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Logging      LoggingConfig
	Discovery    DiscoveryConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds the secret shared with the identity provider that issues access tokens.
type JWTConfig struct {
	AccessSecret string
}

type StorageConfig struct {
	Type string
}

type LoggingConfig struct {
	Level string
}

// DiscoveryConfig tunes candidate discovery and the like quota.
type DiscoveryConfig struct {
	DefaultRadiusKm  float64
	MaxRadiusKm      float64
	PageSize         int
	DailyLikeLimit   int
	QuotaWindow      time.Duration
	QuotaRetryDelay  time.Duration
	StoreTimeout     time.Duration
	DefaultListLimit int
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),

			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Storage: StorageConfig{
			Type: strings.ToLower(v.GetString("STORAGE_TYPE")),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Discovery: DiscoveryConfig{
			DefaultRadiusKm:  v.GetFloat64("DISCOVERY_DEFAULT_RADIUS_KM"),
			MaxRadiusKm:      v.GetFloat64("DISCOVERY_MAX_RADIUS_KM"),
			PageSize:         v.GetInt("DISCOVERY_PAGE_SIZE"),
			DailyLikeLimit:   v.GetInt("SWIPE_DAILY_LIKE_LIMIT"),
			QuotaWindow:      v.GetDuration("SWIPE_QUOTA_WINDOW"),
			QuotaRetryDelay:  v.GetDuration("SWIPE_QUOTA_RETRY_DELAY"),
			StoreTimeout:     v.GetDuration("STORE_TIMEOUT"),
			DefaultListLimit: v.GetInt("DISCOVERY_DEFAULT_LIMIT"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("STORAGE_TYPE", StoragePostgres)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DISCOVERY_DEFAULT_RADIUS_KM", 30.0)
	v.SetDefault("DISCOVERY_MAX_RADIUS_KM", 500.0)
	v.SetDefault("DISCOVERY_PAGE_SIZE", 50)
	v.SetDefault("DISCOVERY_DEFAULT_LIMIT", 20)
	v.SetDefault("SWIPE_DAILY_LIKE_LIMIT", 20)
	v.SetDefault("SWIPE_QUOTA_WINDOW", 24*time.Hour)
	v.SetDefault("SWIPE_QUOTA_RETRY_DELAY", time.Minute)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}

	d := c.Discovery
	if d.DefaultRadiusKm <= 0 || d.MaxRadiusKm < d.DefaultRadiusKm {
		return fmt.Errorf("discovery radius must satisfy 0 < default <= max")
	}
	if d.PageSize <= 0 || d.DefaultListLimit <= 0 {
		return fmt.Errorf("discovery page size and default limit must be positive")
	}
	if d.DailyLikeLimit <= 0 {
		return fmt.Errorf("daily like limit must be positive")
	}
	if d.QuotaWindow <= 0 || d.QuotaRetryDelay <= 0 || d.StoreTimeout <= 0 {
		return fmt.Errorf("quota window, retry delay and store timeout must be positive")
	}
	return nil
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
