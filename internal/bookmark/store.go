package bookmark

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwise1/placemark/internal/db"
	"github.com/bwise1/placemark/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists bookmarks keyed by name.
type Store interface {
	// Insert upserts by name; the last write wins.
	Insert(ctx context.Context, location model.SavedLocation) error
	// ListAll returns every row in no particular order.
	ListAll(ctx context.Context) ([]model.SavedLocation, error)
}

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Insert(ctx context.Context, location model.SavedLocation) error {
	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()

	stmt := `
        INSERT INTO location_data (name, latitude, longitude, description)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (name) DO UPDATE SET
            latitude    = EXCLUDED.latitude,
            longitude   = EXCLUDED.longitude,
            description = EXCLUDED.description
    `
	_, err := s.pool.Exec(ctx, stmt,
		location.Name,
		location.Latitude,
		location.Longitude,
		location.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting saved location: %w", err)
	}
	return nil
}

func (s *PgStore) ListAll(ctx context.Context) ([]model.SavedLocation, error) {
	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()

	stmt := `SELECT name, latitude, longitude, description FROM location_data`
	rows, err := s.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("getting saved locations: %w", err)
	}
	defer rows.Close()

	locations := []model.SavedLocation{}
	for rows.Next() {
		var location model.SavedLocation
		err := rows.Scan(
			&location.Name,
			&location.Latitude,
			&location.Longitude,
			&location.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning saved location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved locations: %w", err)
	}
	return locations, nil
}

// MemoryStore keeps bookmarks in process memory. It is used when no
// database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]model.SavedLocation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]model.SavedLocation)}
}

func (s *MemoryStore) Insert(_ context.Context, location model.SavedLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[location.Name] = location
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]model.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SavedLocation, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}
