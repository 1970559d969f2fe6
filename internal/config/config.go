package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	RefundPolicyStrict  = "strict"
	RefundPolicyLenient = "lenient"
)

type Config struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Store StoreConfig `yaml:"store"`
	Shop  ShopConfig  `yaml:"shop"`
	Auth  AuthConfig  `yaml:"auth"`
}

type StoreConfig struct {
	// Backend is one of memory, redis, mongo, sqlite, postgres.
	Backend     string      `yaml:"backend"`
	RedisURL    string      `yaml:"redis_url"`
	RedisPrefix string      `yaml:"redis_prefix"`
	SQLDSN      string      `yaml:"sql_dsn"`
	Mongo       MongoConfig `yaml:"mongo"`
}

type ShopConfig struct {
	Currency      string        `yaml:"currency"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	RefundPolicy  string        `yaml:"refund_policy"`
	SeedAdmin     string        `yaml:"seed_admin_email"`
	SeedAdminPass string        `yaml:"seed_admin_password"`
}

type AuthConfig struct {
	AccessSecret string        `yaml:"access_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

func defaults() *Config {
	return &Config{
		Host:     "0.0.0.0",
		Port:     "8000",
		LogLevel: "info",
		Store: StoreConfig{
			Backend: "memory",
			SQLDSN:  "data/mdstore.db",
			Mongo: MongoConfig{
				Database:   "mdstore",
				Collection: "kv",
			},
		},
		Shop: ShopConfig{
			Currency:      "₱",
			PollInterval:  2 * time.Second,
			RefundPolicy:  RefundPolicyStrict,
			SeedAdmin:     "admin@mdfine.com",
			SeedAdminPass: "admin123",
		},
		Auth: AuthConfig{
			TokenTTL: 8 * time.Hour,
		},
	}
}

// LoadConfig reads the optional YAML file at path, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Store.Backend = getEnv("MD_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.RedisURL = getEnv("REDIS_URL", cfg.Store.RedisURL)
	cfg.Store.SQLDSN = getEnv("SQL_DSN", cfg.Store.SQLDSN)
	cfg.Store.Mongo.URI = getEnv("MONGODB_URI", cfg.Store.Mongo.URI)
	cfg.Store.Mongo.Database = getEnv("MONGODB_DATABASE", cfg.Store.Mongo.Database)
	cfg.Shop.Currency = getEnv("CURRENCY", cfg.Shop.Currency)
	cfg.Shop.RefundPolicy = getEnv("REFUND_POLICY", cfg.Shop.RefundPolicy)
	cfg.Auth.AccessSecret = getEnv("JWT_ACCESS_SECRET", cfg.Auth.AccessSecret)

	if v := getEnv("POLL_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", v, err)
		}
		cfg.Shop.PollInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Shop.RefundPolicy {
	case RefundPolicyStrict, RefundPolicyLenient:
	default:
		return fmt.Errorf("unknown refund policy %q", c.Shop.RefundPolicy)
	}
	if c.Shop.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Shop.PollInterval)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
