package routing

import (
	"context"
	"log"

	"github.com/bwise1/placemark/internal/geo"
	"github.com/bwise1/placemark/internal/mapkit"
	"github.com/bwise1/placemark/internal/model"
)

// Calculator computes the shortest positive driving distance between two
// points across the alternatives the router returns.
type Calculator struct {
	router     mapkit.DrivingRouter
	routeCount int
	snapRadius float64
	cache      CacheStore
}

type Option func(*Calculator)

// WithCache enables distance caching keyed by origin/destination geohash.
func WithCache(store CacheStore) Option {
	return func(c *Calculator) { c.cache = store }
}

// WithRouteCount sets how many alternatives to request. Default 3.
func WithRouteCount(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.routeCount = n
		}
	}
}

func NewCalculator(router mapkit.DrivingRouter, opts ...Option) *Calculator {
	c := &Calculator{router: router, routeCount: 3, snapRadius: DefaultSnapRadius}
	for _, o := range opts {
		o(c)
	}
	return c
}

// MinimumDistance returns the distance in meters, or 0 when no route
// produced a positive distance.
func (c *Calculator) MinimumDistance(ctx context.Context, start, end model.Point) (float64, error) {
	var key cacheKey
	if c.cache != nil {
		key = newCacheKey(start, end)
		if d, ok, err := c.cache.Get(ctx, key.origin, key.destination); err != nil {
			log.Printf("routing: cache: read failed (%s -> %s): %v", key.origin, key.destination, err)
		} else if ok {
			return d, nil
		}
	}

	routes, err := c.router.DrivingRoutes(ctx, start, end, c.routeCount)
	if err != nil {
		return 0, err
	}

	from, to := geo.ToOrb(start), geo.ToOrb(end)
	distances := make([]float64, 0, len(routes))
	for _, r := range routes {
		distances = append(distances, DistanceOnRoute(r.Geometry, from, to, c.snapRadius))
	}
	min := MinimumPositive(distances)

	if c.cache != nil {
		if err := c.cache.Set(ctx, key.origin, key.destination, min); err != nil {
			log.Printf("routing: cache: write failed (%s -> %s): %v", key.origin, key.destination, err)
		}
	}
	return min, nil
}
