package postgres

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pricing-api/pkg/config"
)

func testDBConfig() config.DBConfig {
	return config.DBConfig{
		Host:            "db",
		Port:            5432,
		User:            "app",
		Password:        "secret",
		DBName:          "pricing",
		SSLMode:         "disable",
		MaxConns:        12,
		MinConns:        3,
		MaxConnLifetime: 20 * time.Minute,
		MaxConnIdleTime: 2 * time.Minute,
	}
}

func TestNewPoolConfig_AplicaLimites(t *testing.T) {
	pc, err := newPoolConfig(testDBConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 20*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 2*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "pricing", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect, "registra el tipo decimal")
}

func TestNewPoolConfig_ForceIPv4(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testDBConfig()
	cfg.ForceIPv4 = true
	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)

	conn, err := pc.ConnConfig.DialFunc(context.Background(), "tcp", ln.Addr().String())
	require.NoError(t, err)
	_ = conn.Close()

	_, err = pc.ConnConfig.DialFunc(context.Background(), "tcp", "[::1]:5432")
	assert.Error(t, err, "una dirección IPv6 no se marca con tcp4")
}

func TestNewPoolConfig_DatabaseURL(t *testing.T) {
	cfg := testDBConfig()
	cfg.DatabaseURL = "postgres://u:p@pg.internal:6543/other?sslmode=disable"
	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(12), pc.MaxConns)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	cfg := testDBConfig()
	cfg.DatabaseURL = "postgres://u:p@host:notaport/db"
	_, err := newPoolConfig(cfg)
	assert.Error(t, err)
}
