package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwise1/placemark/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mmcloughlin/geohash"
)

const (
	// DefaultCacheTTL is how long a cached distance stays valid.
	DefaultCacheTTL = 10 * time.Minute

	cacheQueryTimeout = 3 * time.Second

	// Precision 8 is a cell of roughly 38m x 19m, well inside the snap radius.
	geohashPrecision = 8
)

// CacheStore persists computed distances. Get reports ok=false on a miss
// or an expired entry.
type CacheStore interface {
	Get(ctx context.Context, originHash, destinationHash string) (float64, bool, error)
	Set(ctx context.Context, originHash, destinationHash string, distanceM float64) error
}

type cacheKey struct {
	origin      string
	destination string
}

func newCacheKey(start, end model.Point) cacheKey {
	return cacheKey{
		origin:      geohash.EncodeWithPrecision(start.Latitude, start.Longitude, geohashPrecision),
		destination: geohash.EncodeWithPrecision(end.Latitude, end.Longitude, geohashPrecision),
	}
}

type memoryEntry struct {
	distance  float64
	expiresAt time.Time
}

// MemoryCacheStore is an in-process CacheStore with a fixed TTL.
type MemoryCacheStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[cacheKey]memoryEntry
}

func NewMemoryCacheStore(ttl time.Duration) *MemoryCacheStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCacheStore{ttl: ttl, now: time.Now, entries: make(map[cacheKey]memoryEntry)}
}

func (s *MemoryCacheStore) Get(_ context.Context, originHash, destinationHash string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := cacheKey{originHash, destinationHash}
	e, ok := s.entries[k]
	if !ok {
		return 0, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return 0, false, nil
	}
	return e.distance, true, nil
}

func (s *MemoryCacheStore) Set(_ context.Context, originHash, destinationHash string, distanceM float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cacheKey{originHash, destinationHash}] = memoryEntry{
		distance:  distanceM,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// PgCacheStore keeps distances in route_distance_cache.
type PgCacheStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPgCacheStore(pool *pgxpool.Pool, ttl time.Duration) *PgCacheStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PgCacheStore{pool: pool, ttl: ttl}
}

func (s *PgCacheStore) Get(ctx context.Context, originHash, destinationHash string) (float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheQueryTimeout)
	defer cancel()

	const q = `
		SELECT distance_m
		FROM route_distance_cache
		WHERE origin_hash      = $1
		  AND destination_hash = $2
		  AND expires_at       > NOW()`

	var d float64
	err := s.pool.QueryRow(ctx, q, originHash, destinationHash).Scan(&d)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("routing: cache: get: %w", err)
	}
	return d, true, nil
}

// Set upserts an entry expiring ttl from now.
func (s *PgCacheStore) Set(ctx context.Context, originHash, destinationHash string, distanceM float64) error {
	ctx, cancel := context.WithTimeout(ctx, cacheQueryTimeout)
	defer cancel()

	const q = `
		INSERT INTO route_distance_cache (origin_hash, destination_hash, distance_m, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (origin_hash, destination_hash)
		DO UPDATE SET
			distance_m = EXCLUDED.distance_m,
			expires_at = EXCLUDED.expires_at`

	_, err := s.pool.Exec(ctx, q, originHash, destinationHash, distanceM, time.Now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("routing: cache: set: %w", err)
	}
	return nil
}
