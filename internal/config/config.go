package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mubasher MubasherConfig
	Retry    RetryConfig
	Kafka    KafkaConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// MubasherConfig holds upstream API configuration.
// Endpoint templates are relative to the language base URLs and expect
// size/start query parameters to be appended by the client.
type MubasherConfig struct {
	EnglishBase     string
	ArabicBase      string
	StocksEndpoint  string
	FairValues      string
	IPOs            string
	PageSize        int
	RequestDelay    time.Duration
	RequestTimeout  time.Duration
	MaxPages        int
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// RetryConfig holds retry/backoff policy configuration
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	ClientID string
	Topic    string
}

// CacheConfig holds redis response cache configuration
type CacheConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")
	v.SetDefault("database.migrationsPath", "migrations")

	// Mubasher upstream defaults
	v.SetDefault("mubasher.englishBase", "https://english.mubasher.info/")
	v.SetDefault("mubasher.arabicBase", "https://www.mubasher.info/")
	v.SetDefault("mubasher.stocksEndpoint", "api/1/listed-companies?country=eg")
	v.SetDefault("mubasher.fairValues", "api/1/fairValues?country=eg")
	v.SetDefault("mubasher.ipos", "api/1/ipos?country=eg")
	v.SetDefault("mubasher.pageSize", 30)
	v.SetDefault("mubasher.requestDelay", "1s")
	v.SetDefault("mubasher.requestTimeout", "30s")
	v.SetDefault("mubasher.maxPages", 0) // 0 means no cap
	v.SetDefault("mubasher.maxIdleConns", 10)
	v.SetDefault("mubasher.idleConnTimeout", "90s")

	// Retry defaults
	v.SetDefault("retry.maxAttempts", 3)
	v.SetDefault("retry.baseDelay", "1s")
	v.SetDefault("retry.maxDelay", "30s")
	v.SetDefault("retry.backoffFactor", 2.0)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.clientID", "egx-collector")
	v.SetDefault("kafka.topic", "collection-events")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.prefix", "egx-collector")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
