package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4101", cfg.HTTPAddr)
	assert.Equal(t, ":8000", cfg.SocketAddr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 6*time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, 30*time.Minute, cfg.RoomIdleTimeout)
	assert.False(t, cfg.DB.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_ADDR", "localhost:5432")
	t.Setenv("SNAPSHOT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.DB.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.SnapshotTTL)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("SNAPSHOT_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadRejectsZeroRate(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("ACTION_BURST", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsZeroSweepInterval(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("SWEEP_INTERVAL", "0s")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresSigningSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
}
