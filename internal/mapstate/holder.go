// Package mapstate holds the map screen's UI state and one-shot events.
package mapstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwise1/placemark/internal/mapkit"
	"github.com/bwise1/placemark/internal/model"
	"github.com/bwise1/placemark/internal/routing"
)

const (
	pointSearchPageSize   = 47
	keywordSearchPageSize = 5
	defaultDistanceScale  = 10
	defaultEventBuffer    = 16

	MsgSearchError         = "Search Error"
	MsgRouteError          = "Route error"
	MsgLocationUnavailable = "Location unavailable"
)

var (
	// ErrSuperseded is returned by a search cancelled because a newer one
	// started. It matches context.Canceled.
	ErrSuperseded       = fmt.Errorf("search superseded by a newer search: %w", context.Canceled)
	ErrNoResults        = errors.New("search returned no results")
	ErrNoLastLocation   = errors.New("last known location is not set")
	ErrInvalidArguments = errors.New("invalid search arguments")
)

type Repository interface {
	Save(ctx context.Context, location model.LocationData) error
}

type DistanceCalculator interface {
	MinimumDistance(ctx context.Context, start, end model.Point) (float64, error)
}

// Listener observes state replacements and events. It is called with the
// holder's lock held and must not call back into the holder.
type Listener interface {
	StateChanged(state model.MapUiState)
	Event(event model.MapEvent)
}

type Option func(*Holder)

func WithDistanceScale(scale int) Option {
	return func(h *Holder) {
		if scale > 0 {
			h.scale = scale
		}
	}
}

func WithListener(l Listener) Option {
	return func(h *Holder) { h.listener = l }
}

func WithEventBuffer(n int) Option {
	return func(h *Holder) {
		if n > 0 {
			h.events = make(chan model.MapEvent, n)
		}
	}
}

type Holder struct {
	geocoder  mapkit.Geocoder
	searcher  mapkit.Searcher
	distances DistanceCalculator
	repo      Repository
	scale     int
	listener  Listener

	mu           sync.Mutex
	state        model.MapUiState
	generation   uint64
	cancelSearch context.CancelFunc

	events chan model.MapEvent
}

func New(geocoder mapkit.Geocoder, searcher mapkit.Searcher, distances DistanceCalculator, repo Repository, opts ...Option) *Holder {
	h := &Holder{
		geocoder:  geocoder,
		searcher:  searcher,
		distances: distances,
		repo:      repo,
		scale:     defaultDistanceScale,
		state:     model.InitialMapUiState(),
		events:    make(chan model.MapEvent, defaultEventBuffer),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// State returns a copy of the current state.
func (h *Holder) State() model.MapUiState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

func (h *Holder) Events() <-chan model.MapEvent {
	return h.events
}

// DrainEvents returns the queued events without blocking.
func (h *Holder) DrainEvents() []model.MapEvent {
	out := []model.MapEvent{}
	for {
		select {
		case e := <-h.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

// SetLastKnownLocation records the device location and clears the selection
// and the result list.
func (h *Holder) SetLastKnownLocation(point *model.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replace(func(s *model.MapUiState) {
		s.Title = nil
		s.Description = nil
		s.Location = nil
		s.LastLocation = clonePoint(point)
		s.Places = []model.PlaceItem{}
	})
}

// SetSelectedLocation selects a place and clears the result list.
func (h *Holder) SetSelectedLocation(name, description *string, category model.Category, point *model.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replace(selection(name, description, category, point))
}

// Save bookmarks a place. A missing location is stored as (0, 0).
func (h *Holder) Save(ctx context.Context, item model.PlaceItem) error {
	data := model.LocationData{Name: item.Name, Description: item.Description}
	if item.Location != nil {
		data.Latitude = item.Location.Latitude
		data.Longitude = item.Location.Longitude
	}
	if err := h.repo.Save(ctx, data); err != nil {
		return fmt.Errorf("saving bookmark %q: %w", item.Name, err)
	}
	return nil
}

// SendError queues a one-shot error event. When the queue is full the
// oldest event is dropped.
func (h *Holder) SendError(message string) {
	e := model.MapEvent{Type: model.MapEventError, Message: message}
	for {
		select {
		case h.events <- e:
			h.mu.Lock()
			if h.listener != nil {
				h.listener.Event(e)
			}
			h.mu.Unlock()
			return
		default:
		}
		select {
		case <-h.events:
		default:
		}
	}
}

// SearchPoint geocodes a map point. A geo search selects the first result;
// any other search type publishes the results as a list.
func (h *Holder) SearchPoint(ctx context.Context, point model.Point, searchType model.SearchType, zoom int) error {
	if searchType != model.SearchTypeGeo {
		if _, err := h.requireLastLocation(); err != nil {
			return err
		}
	}

	ctx, gen, done := h.beginSearch(ctx)
	defer done()

	objs, err := h.geocoder.ReverseGeocode(ctx, point, zoom, pointSearchPageSize)
	if err := h.searchFailed(ctx, gen, err); err != nil {
		return err
	}

	if searchType == model.SearchTypeGeo {
		return h.selectFirst(gen, objs, &point)
	}
	return h.publishPlaces(ctx, gen, objs)
}

// SearchKeyword searches the visible region and publishes every candidate
// with its driving distance from the last known location.
func (h *Holder) SearchKeyword(ctx context.Context, keyword string, region model.Region, searchType model.SearchType) error {
	if keyword == "" {
		return ErrInvalidArguments
	}
	if searchType != model.SearchTypeGeo {
		if _, err := h.requireLastLocation(); err != nil {
			return err
		}
	}

	ctx, gen, done := h.beginSearch(ctx)
	defer done()

	objs, err := h.searcher.Search(ctx, keyword, region, searchType, keywordSearchPageSize)
	if err := h.searchFailed(ctx, gen, err); err != nil {
		return err
	}

	if searchType == model.SearchTypeGeo {
		return h.selectFirst(gen, objs, nil)
	}
	return h.publishPlaces(ctx, gen, objs)
}

// Close cancels any search in flight.
func (h *Holder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelSearch != nil {
		h.cancelSearch()
		h.cancelSearch = nil
	}
	h.generation++
}

func (h *Holder) requireLastLocation() (model.Point, error) {
	h.mu.Lock()
	last := h.state.LastLocation
	h.mu.Unlock()
	if last == nil {
		h.SendError(MsgLocationUnavailable)
		return model.Point{}, ErrNoLastLocation
	}
	return *last, nil
}

func (h *Holder) beginSearch(ctx context.Context) (context.Context, uint64, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelSearch != nil {
		h.cancelSearch()
	}
	h.generation++
	gen := h.generation
	ctx, cancel := context.WithCancel(ctx)
	h.cancelSearch = cancel

	return ctx, gen, func() {
		cancel()
		h.mu.Lock()
		if h.generation == gen {
			h.cancelSearch = nil
		}
		h.mu.Unlock()
	}
}

func (h *Holder) current(gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generation == gen
}

// searchFailed classifies a provider error. It returns nil when the search
// should proceed.
func (h *Holder) searchFailed(ctx context.Context, gen uint64, err error) error {
	if !h.current(gen) {
		return ErrSuperseded
	}
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Printf("[mapstate] search failed: %v", err)
	h.SendError(MsgSearchError)
	return fmt.Errorf("search: %w", err)
}

func (h *Holder) selectFirst(gen uint64, objs []model.GeoObject, point *model.Point) error {
	if len(objs) == 0 {
		h.SendError(MsgSearchError)
		return ErrNoResults
	}
	first := objs[0]
	if point == nil {
		point = first.Point
	}
	name, description := first.Name, first.Description
	if !h.update(gen, selection(&name, &description, first.Category, point)) {
		return ErrSuperseded
	}
	return nil
}

func (h *Holder) publishPlaces(ctx context.Context, gen uint64, objs []model.GeoObject) error {
	origin, err := h.requireLastLocation()
	if err != nil {
		return err
	}

	if !h.update(gen, func(s *model.MapUiState) { s.IsLoading = true }) {
		return ErrSuperseded
	}

	places := make([]model.PlaceItem, 0, len(objs))
	for _, obj := range objs {
		item := model.PlaceItem{
			Name:        obj.Name,
			Description: obj.Description,
			Location:    clonePoint(obj.Point),
			Category:    obj.Category,
		}
		if obj.Point != nil {
			d, err := h.distances.MinimumDistance(ctx, origin, *obj.Point)
			if err != nil {
				return h.routeFailed(ctx, gen, err)
			}
			item.Distance = routing.Scale(d, h.scale)
		}
		places = append(places, item)
	}

	if !h.update(gen, func(s *model.MapUiState) {
		s.IsLoading = false
		s.Places = places
	}) {
		return ErrSuperseded
	}
	return nil
}

func (h *Holder) routeFailed(ctx context.Context, gen uint64, err error) error {
	if !h.current(gen) {
		return ErrSuperseded
	}
	h.update(gen, func(s *model.MapUiState) { s.IsLoading = false })
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Printf("[mapstate] route request failed: %v", err)
	h.SendError(MsgRouteError)
	return fmt.Errorf("route: %w", err)
}

// update replaces the state only if gen is still the current search.
func (h *Holder) update(gen uint64, fn func(*model.MapUiState)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.generation != gen {
		return false
	}
	h.replace(fn)
	return true
}

// replace must be called with mu held.
func (h *Holder) replace(fn func(*model.MapUiState)) {
	next := h.state.Clone()
	fn(&next)
	h.state = next
	if h.listener != nil {
		h.listener.StateChanged(next.Clone())
	}
}

func selection(name, description *string, category model.Category, point *model.Point) func(*model.MapUiState) {
	return func(s *model.MapUiState) {
		s.Title = cloneString(name)
		s.Description = cloneString(description)
		s.Location = clonePoint(point)
		s.Category = category
		s.Places = []model.PlaceItem{}
	}
}

func clonePoint(p *model.Point) *model.Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
