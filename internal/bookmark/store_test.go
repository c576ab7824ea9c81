package bookmark

import (
	"context"
	"os"
	"testing"

	"github.com/bwise1/placemark/internal/db"
	"github.com/bwise1/placemark/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storesUnderTest returns the memory store plus, when TEST_DSN is set, a
// freshly truncated Postgres store.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{"memory": NewMemoryStore()}

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		return stores
	}

	database, err := db.New(dsn)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx))
	_, err = database.Pool().Exec(ctx, `TRUNCATE location_data`)
	require.NoError(t, err)

	stores["postgres"] = NewPgStore(database.Pool())
	return stores
}

func TestStoreListAllEmpty(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			rows, err := store.ListAll(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		})
	}
}

func TestStoreInsertReplacesOnNameConflict(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Insert(ctx, model.SavedLocation{
				Name: "home", Latitude: 41.31, Longitude: 69.24, Description: "old",
			}))
			require.NoError(t, store.Insert(ctx, model.SavedLocation{
				Name: "work", Latitude: 41.33, Longitude: 69.28, Description: "office",
			}))
			require.NoError(t, store.Insert(ctx, model.SavedLocation{
				Name: "home", Latitude: 40.1, Longitude: 65.3, Description: "new",
			}))

			rows, err := store.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 2)

			var homes []model.SavedLocation
			for _, r := range rows {
				if r.Name == "home" {
					homes = append(homes, r)
				}
			}
			require.Len(t, homes, 1)
			assert.Equal(t, model.SavedLocation{
				Name: "home", Latitude: 40.1, Longitude: 65.3, Description: "new",
			}, homes[0])
		})
	}
}

func TestStoreAcceptsOutOfRangeCoordinates(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Insert(ctx, model.SavedLocation{Name: "odd", Latitude: 123, Longitude: -500}))

			rows, err := store.ListAll(ctx)
			require.NoError(t, err)
			assert.Contains(t, rows, model.SavedLocation{Name: "odd", Latitude: 123, Longitude: -500})
		})
	}
}
