package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/core/config"
	"github.com/dmitrymomot/webroot/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Run("creates server from config with defaults", func(t *testing.T) {
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})

	t.Run("allows overriding config values with options", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.Addr = ":9000"
		srv, err := server.NewFromConfig(cfg, server.WithShutdownTimeout(5*time.Second))
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("returns error for empty address", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.Addr = ""
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("returns error for half TLS configuration", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "/tmp/cert.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrEmptyCertPath)
	})

	t.Run("returns error for missing TLS files", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "/nonexistent/cert.pem"
		cfg.TLSKeyFile = "/nonexistent/key.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})
}

func TestConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("SERVER_IDLE_TIMEOUT", "2m")

	var cfg server.Config
	require.NoError(t, config.Parse(&cfg))

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.WriteTimeout)
	assert.Equal(t, "intermediate", cfg.TLSProfile)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	assert.Equal(t, server.DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, server.DefaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
	assert.Equal(t, server.DefaultIdleTimeout, cfg.IdleTimeout)
	assert.Equal(t, server.DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, server.DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)
}
