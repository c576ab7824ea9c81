package model

// SavedLocation is one bookmark row. Name is the primary key.
type SavedLocation struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
}

// LocationData is the value object the repository hands to view-state holders.
type LocationData struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

type SaveBookmarkRequest struct {
	Place PlaceItem `json:"place" validate:"required"`
}

type SelectBookmarkRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type BookmarkUiState struct {
	Places []PlaceItem `json:"places"`
}
