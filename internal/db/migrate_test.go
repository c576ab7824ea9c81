package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsOrdered(t *testing.T) {
	ms, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "migrations/001_location_data.sql", ms[0].version)
	assert.Equal(t, "migrations/002_route_distance_cache.sql", ms[1].version)
	assert.Contains(t, ms[0].sql, "location_data")
}

func TestMigrateIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("TEST_DSN not set")
	}

	database, err := New(dsn)
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Migrate(ctx))

	var n int
	require.NoError(t, database.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.GreaterOrEqual(t, n, 2)
}
