package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10, cfg.DistanceScale)
	assert.Equal(t, 3, cfg.RouteAlternatives)
	assert.Equal(t, 10*time.Minute, cfg.RouteCacheTTL)
	assert.Equal(t, "https://api.mapbox.com", cfg.MapboxBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DISTANCE_SCALE", "1")
	t.Setenv("ROUTE_CACHE_TTL", "30s")
	t.Setenv("DSN", "postgres://localhost/placemark")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 1, cfg.DistanceScale)
	assert.Equal(t, 30*time.Second, cfg.RouteCacheTTL)
	assert.Equal(t, "postgres://localhost/placemark", cfg.Dsn)
}

func TestParseInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Parse()
	assert.Error(t, err)
}
