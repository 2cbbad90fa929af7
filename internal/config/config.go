package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Brokers     []string `yaml:"brokers"`
	TradesTopic string   `yaml:"trades_topic"`
	PricesTopic string   `yaml:"prices_topic"`
	OrdersTopic string   `yaml:"orders_topic"`
	GroupID     string   `yaml:"group_id"`
}

// RedisConfig holds the quote cache configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// PortfolioConfig holds trading configuration
type PortfolioConfig struct {
	OpeningBalance string `yaml:"opening_balance"`
	PricePolicy    string `yaml:"price_policy"`
}

// PricingConfig holds price feed configuration
type PricingConfig struct {
	// RefreshInterval of zero disables the background ticker
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	MinPrice        string        `yaml:"min_price"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "paisabuddy",
			SSLMode:  "disable",
		},
		Kafka: KafkaConfig{
			Brokers:     []string{"localhost:9092"},
			TradesTopic: "paisabuddy-trades",
			PricesTopic: "paisabuddy-prices",
			OrdersTopic: "paisabuddy-orders",
			GroupID:     "paisabuddy",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			Key:  "paisabuddy:quotes",
		},
		Portfolio: PortfolioConfig{
			OpeningBalance: "100000.00",
			PricePolicy:    "quoted",
		},
		Pricing: PricingConfig{
			MinPrice: "0",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the YAML file named by CONFIG_FILE, if any,
// then applies environment variables on top.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideWithEnv(cfg *Config) error {
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.TradesTopic = getEnv("KAFKA_TRADES_TOPIC", cfg.Kafka.TradesTopic)
	cfg.Kafka.PricesTopic = getEnv("KAFKA_PRICES_TOPIC", cfg.Kafka.PricesTopic)
	cfg.Kafka.OrdersTopic = getEnv("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.Key = getEnv("REDIS_KEY", cfg.Redis.Key)

	cfg.Portfolio.OpeningBalance = getEnv("PORTFOLIO_OPENING_BALANCE", cfg.Portfolio.OpeningBalance)
	cfg.Portfolio.PricePolicy = getEnv("PORTFOLIO_PRICE_POLICY", cfg.Portfolio.PricePolicy)

	cfg.Pricing.MinPrice = getEnv("PRICE_MIN", cfg.Pricing.MinPrice)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	var err error
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.Pricing.RefreshInterval, err = getEnvDuration("PRICE_REFRESH_INTERVAL", cfg.Pricing.RefreshInterval); err != nil {
		return err
	}
	if cfg.Kafka.Enabled, err = getEnvBool("KAFKA_ENABLED", cfg.Kafka.Enabled); err != nil {
		return err
	}
	if cfg.Redis.Enabled, err = getEnvBool("REDIS_ENABLED", cfg.Redis.Enabled); err != nil {
		return err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	return nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	balance, err := decimal.NewFromString(c.Portfolio.OpeningBalance)
	if err != nil {
		return fmt.Errorf("invalid opening balance %q: %w", c.Portfolio.OpeningBalance, err)
	}
	if balance.IsNegative() {
		return fmt.Errorf("opening balance must not be negative: %s", c.Portfolio.OpeningBalance)
	}

	switch strings.ToLower(c.Portfolio.PricePolicy) {
	case "", "quoted", "market":
	default:
		return fmt.Errorf("unknown price policy: %q", c.Portfolio.PricePolicy)
	}

	minPrice, err := decimal.NewFromString(c.Pricing.MinPrice)
	if err != nil {
		return fmt.Errorf("invalid min price %q: %w", c.Pricing.MinPrice, err)
	}
	if minPrice.IsNegative() {
		return fmt.Errorf("min price must not be negative: %s", c.Pricing.MinPrice)
	}
	if c.Pricing.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative: %s", c.Pricing.RefreshInterval)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Addr returns the HTTP listen address
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// OpeningBalanceDecimal returns the parsed opening balance
func (p *PortfolioConfig) OpeningBalanceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(p.OpeningBalance)
	return d
}

// MinPriceDecimal returns the parsed price floor
func (p *PricingConfig) MinPriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(p.MinPrice)
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
