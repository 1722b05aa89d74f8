package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.Routing.Timeout)
	assert.Empty(t, cfg.DB.DSN)
	assert.False(t, cfg.Maps.GeocodeEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:7000\nRATES_FILE=/etc/compass/rates.yaml\n"), 0o600))
	t.Setenv("COMPASS_HTTP_ADDR", ":9090")
	t.Setenv("COMPASS_ROUTING_TIMEOUT", "3s")
	t.Setenv("COMPASS_GEOCODE_ENABLED", "true")
	t.Setenv("COMPASS_ENV", "production")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/etc/compass/rates.yaml", cfg.Pricing.RatesFile)
	assert.Equal(t, 3*time.Second, cfg.Routing.Timeout)
	assert.True(t, cfg.Maps.GeocodeEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFile_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("COMPASS_ROUTING_TIMEOUT", "0s")
	_, err := LoadFile("")
	assert.Error(t, err)
}
