package model

// MapUiState is replaced as a whole on every transition.
type MapUiState struct {
	IsLoading    bool        `json:"is_loading"`
	Title        *string     `json:"title"`
	Description  *string     `json:"description"`
	Location     *Point      `json:"location"`
	LastLocation *Point      `json:"last_location"`
	Category     Category    `json:"category"`
	Places       []PlaceItem `json:"places"`
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s MapUiState) Clone() MapUiState {
	out := s
	out.Title = cloneString(s.Title)
	out.Description = cloneString(s.Description)
	out.Location = clonePoint(s.Location)
	out.LastLocation = clonePoint(s.LastLocation)
	out.Places = make([]PlaceItem, len(s.Places))
	for i, p := range s.Places {
		p.Location = clonePoint(p.Location)
		out.Places[i] = p
	}
	return out
}

// InitialMapUiState matches a freshly opened map screen.
func InitialMapUiState() MapUiState {
	empty := ""
	return MapUiState{
		Description: &empty,
		Category:    UndefinedCategory(),
		Places:      []PlaceItem{},
	}
}

type MapEventType string

const MapEventError MapEventType = "error"

// MapEvent is a one-shot notification delivered independently of MapUiState.
type MapEvent struct {
	Type    MapEventType `json:"type"`
	Message string       `json:"message"`
}

type LastLocationRequest struct {
	Point
}

type SelectionRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    Category `json:"category"`
	Point       *Point   `json:"point" validate:"omitempty"`
}

type PointSearchRequest struct {
	Point
	Zoom *int `json:"zoom" validate:"omitempty,min=0,max=23"`
}

type KeywordSearchRequest struct {
	Keyword string `json:"keyword" validate:"required,min=1"`
	Region  Region `json:"region"`
}

type ErrorRequest struct {
	Message string `json:"message" validate:"required"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
