package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "paisabuddy", cfg.Database.DBName)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "quoted", cfg.Portfolio.PricePolicy)
	assert.True(t, decimal.RequireFromString("100000").Equal(cfg.Portfolio.OpeningBalanceDecimal()))
	assert.True(t, cfg.Pricing.MinPriceDecimal().IsZero())
	assert.Zero(t, cfg.Pricing.RefreshInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PRICE_REFRESH_INTERVAL", "15s")
	t.Setenv("PORTFOLIO_PRICE_POLICY", "market")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "ledger", cfg.Database.DBName)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 15*time.Second, cfg.Pricing.RefreshInterval)
	assert.Equal(t, "market", cfg.Portfolio.PricePolicy)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "7000"
redis:
  enabled: true
  addr: cache:6379
pricing:
  refresh_interval: 5s
  min_price: "0.05"
log:
  level: debug
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Pricing.RefreshInterval)
	assert.True(t, decimal.RequireFromString("0.05").Equal(cfg.Pricing.MinPriceDecimal()))
	// env wins over the file
	assert.Equal(t, "warn", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing config file", map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}},
		{"bad bool", map[string]string{"KAFKA_ENABLED": "maybe"}},
		{"bad duration", map[string]string{"PRICE_REFRESH_INTERVAL": "soon"}},
		{"bad balance", map[string]string{"PORTFOLIO_OPENING_BALANCE": "lots"}},
		{"negative balance", map[string]string{"PORTFOLIO_OPENING_BALANCE": "-1"}},
		{"unknown policy", map[string]string{"PORTFOLIO_PRICE_POLICY": "best"}},
		{"negative min price", map[string]string{"PRICE_MIN": "-0.01"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.ConnectionString())
}
