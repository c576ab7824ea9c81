// Package bookmarkstate exposes the saved places as a read-only UI state.
package bookmarkstate

import (
	"context"
	"fmt"

	"github.com/bwise1/placemark/internal/model"
)

type Repository interface {
	ListAll(ctx context.Context) ([]model.LocationData, error)
}

// Holder loads the bookmarks once when it is created. Later saves are not
// reflected until a new Holder is built.
type Holder struct {
	state model.BookmarkUiState
}

func New(ctx context.Context, repo Repository) (*Holder, error) {
	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}

	places := make([]model.PlaceItem, 0, len(rows))
	for _, row := range rows {
		places = append(places, model.PlaceItem{
			Name:        row.Name,
			Description: row.Description,
			Location:    &model.Point{Latitude: row.Latitude, Longitude: row.Longitude},
			Category:    model.UndefinedCategory(),
		})
	}
	return &Holder{state: model.BookmarkUiState{Places: places}}, nil
}

// State returns a copy of the loaded bookmarks.
func (h *Holder) State() model.BookmarkUiState {
	places := make([]model.PlaceItem, len(h.state.Places))
	for i, p := range h.state.Places {
		loc := *p.Location
		p.Location = &loc
		places[i] = p
	}
	return model.BookmarkUiState{Places: places}
}

// Find returns the bookmark with the given name.
func (h *Holder) Find(name string) (model.PlaceItem, bool) {
	for _, p := range h.state.Places {
		if p.Name == name {
			loc := *p.Location
			p.Location = &loc
			return p, true
		}
	}
	return model.PlaceItem{}, false
}
