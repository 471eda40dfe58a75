package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "GHS", cfg.Currency.BaseCurrency)
	assert.Equal(t, 5*time.Second, cfg.Currency.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Currency.RateTTL)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"admin"}, cfg.JWT.DeleteRoles)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, int32(1), cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("BASE_CURRENCY", "usd")
	v.Set("CURRENCY_TIMEOUT", "2")
	v.Set("CURRENCY_RATE_TTL", "90s")
	v.Set("CURRENCY_SERVICE_URL", "http://rates.internal/")
	v.Set("HTTP_PORT", "9000")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("DOCUMENT_DELETE_ROLES", "admin, contador,")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Currency.BaseCurrency)
	assert.Equal(t, 2*time.Second, cfg.Currency.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Currency.RateTTL)
	assert.Equal(t, "http://rates.internal", cfg.Currency.ServiceURL)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"admin", "contador"}, cfg.JWT.DeleteRoles)
}

func TestFromViper_Pool(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", "40")
	v.Set("DB_MIN_CONNS", "4")
	v.Set("DB_MAX_CONN_IDLE_TIME", "5m")
	v.Set("DB_FORCE_IPV4", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, int32(40), cfg.DB.MaxConns)
	assert.Equal(t, int32(4), cfg.DB.MinConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestFromViper_PoolInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", "2")
	v.Set("DB_MIN_CONNS", "5")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_MonedaBaseInvalida(t *testing.T) {
	v := viper.New()
	v.Set("BASE_CURRENCY", "CEDI")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "pricing", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/pricing?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
