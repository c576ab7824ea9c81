package bookmark

import (
	"context"

	"github.com/bwise1/placemark/internal/model"
)

// Repository maps between storage rows and LocationData. It adds no rules
// of its own.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Save(ctx context.Context, location model.LocationData) error {
	return r.store.Insert(ctx, model.SavedLocation{
		Name:        location.Name,
		Latitude:    location.Latitude,
		Longitude:   location.Longitude,
		Description: location.Description,
	})
}

func (r *Repository) ListAll(ctx context.Context) ([]model.LocationData, error) {
	rows, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.LocationData, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.LocationData{
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Name:        row.Name,
			Description: row.Description,
		})
	}
	return out, nil
}
