package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwise1/placemark/internal/mapkit"
	"github.com/bwise1/placemark/internal/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouter struct {
	routes []mapkit.Route
	err    error
	calls  int
	count  int
}

func (f *fakeRouter) DrivingRoutes(_ context.Context, _, _ model.Point, count int) ([]mapkit.Route, error) {
	f.calls++
	f.count = count
	return f.routes, f.err
}

var (
	origin      = model.Point{Latitude: 0, Longitude: 0}
	destination = model.Point{Latitude: 0, Longitude: 0.01}
)

func threeRoutes() []mapkit.Route {
	return []mapkit.Route{
		// Detour north: longer than straight.
		{Geometry: orb.LineString{{0, 0}, {0.005, 0.003}, {0.01, 0}}},
		// Straight: shortest.
		{Geometry: orb.LineString{{0, 0}, {0.01, 0}}},
		// Never reaches the destination: contributes 0.
		{Geometry: orb.LineString{{0, 0}, {0, 0.02}}},
	}
}

func TestCalculatorPicksShortestPositiveRoute(t *testing.T) {
	router := &fakeRouter{routes: threeRoutes()}
	calc := NewCalculator(router)

	got, err := calc.MinimumDistance(context.Background(), origin, destination)
	require.NoError(t, err)

	straight := geo.Distance(orb.Point{0, 0}, orb.Point{0.01, 0})
	assert.InDelta(t, straight, got, 1.0)
	assert.Equal(t, 3, router.count)
}

func TestCalculatorNoRoutes(t *testing.T) {
	calc := NewCalculator(&fakeRouter{routes: []mapkit.Route{}})

	got, err := calc.MinimumDistance(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestCalculatorPropagatesRouterError(t *testing.T) {
	boom := errors.New("route error")
	calc := NewCalculator(&fakeRouter{err: boom})

	_, err := calc.MinimumDistance(context.Background(), origin, destination)
	assert.ErrorIs(t, err, boom)
}

func TestCalculatorUsesCache(t *testing.T) {
	router := &fakeRouter{routes: threeRoutes()}
	cache := NewMemoryCacheStore(time.Minute)
	calc := NewCalculator(router, WithCache(cache), WithRouteCount(2))

	first, err := calc.MinimumDistance(context.Background(), origin, destination)
	require.NoError(t, err)
	second, err := calc.MinimumDistance(context.Background(), origin, destination)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, router.calls)
	assert.Equal(t, 2, router.count)
}

func TestMemoryCacheStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCacheStore(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "b", 42))

	d, ok, err := store.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42.0, d)

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheKeyGeohash(t *testing.T) {
	k := newCacheKey(model.Point{Latitude: 41.311081, Longitude: 69.240562}, model.Point{Latitude: 41.311082, Longitude: 69.240563})
	assert.Len(t, k.origin, geohashPrecision)
	assert.Equal(t, k.origin, k.destination)
}
