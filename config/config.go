package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	QRLink   QRLinkConfig   `yaml:"qrlink"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres"

	// SQLite storage path.
	Path string `yaml:"path"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	CustomerEventsTopicName string `yaml:"customer_events_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type QRLinkConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	// BaseURL is the public prefix embedded in generated QR codes,
	// e.g. "http://192.168.1.10:8000". Redirect links are BaseURL + "/r/" + code.
	BaseURL string `yaml:"base_url"`

	RedirectCacheTTLSeconds int `yaml:"redirect_cache_ttl_seconds"`
	// Updated or deleted codes bypass the cache this long; 0 means 30s.
	RedirectInvalidationHoldSeconds int `yaml:"redirect_invalidation_hold_seconds"`
	RedirectRateLimitPerMinute      int `yaml:"redirect_rate_limit_per_minute"`
	QRSize                          int `yaml:"qr_size"`

	// TrustProxyHeaders: take the client IP for rate limiting from
	// X-Forwarded-For. Only behind a reverse proxy.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// PostgresConnString builds a pgx connection string from the database section.
func (c DatabaseConfig) PostgresConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

// KafkaEnabled reports whether a broker is configured.
func (c *Config) KafkaEnabled() bool {
	return c.Kafka.Host != ""
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
