// Package session models a screen lifetime. A session owns one map view-state
// holder and, once the bookmark screen is opened, one bookmark holder.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/bwise1/placemark/internal/bookmarkstate"
	"github.com/bwise1/placemark/internal/mapkit"
	"github.com/bwise1/placemark/internal/mapstate"
	"github.com/bwise1/placemark/internal/model"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Publisher receives every state replacement and event of a session.
// Disconnect drops the session's subscribers when it is closed.
type Publisher interface {
	PublishState(sessionID string, state interface{})
	PublishEvent(sessionID string, event interface{})
	Disconnect(sessionID string)
}

// Repository is the bookmark repository shared by all sessions.
type Repository interface {
	mapstate.Repository
	bookmarkstate.Repository
}

type Dependencies struct {
	Geocoder   mapkit.Geocoder
	Searcher   mapkit.Searcher
	Distances  mapstate.DistanceCalculator
	Repository Repository
	Publisher  Publisher // optional
	MapOptions []mapstate.Option
}

type Session struct {
	ID  uuid.UUID
	Map *mapstate.Holder

	repo      bookmarkstate.Repository
	mu        sync.Mutex
	bookmarks *bookmarkstate.Holder
	lastUsed  time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Bookmarks returns the session's bookmark holder, loading it on first use.
func (s *Session) Bookmarks(ctx context.Context) (*bookmarkstate.Holder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookmarks != nil {
		return s.bookmarks, nil
	}
	h, err := bookmarkstate.New(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	s.bookmarks = h
	return h, nil
}

// ResetBookmarks drops the bookmark holder so the next open reloads it.
func (s *Session) ResetBookmarks() {
	s.mu.Lock()
	s.bookmarks = nil
	s.mu.Unlock()
}

type Manager struct {
	deps Dependencies
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(deps Dependencies) *Manager {
	return &Manager{deps: deps, now: time.Now, sessions: make(map[uuid.UUID]*Session)}
}

func (m *Manager) Open() *Session {
	id := uuid.New()

	opts := append([]mapstate.Option{}, m.deps.MapOptions...)
	if m.deps.Publisher != nil {
		opts = append(opts, mapstate.WithListener(&forwarder{id: id.String(), pub: m.deps.Publisher}))
	}

	s := &Session{
		ID:       id,
		Map:      mapstate.New(m.deps.Geocoder, m.deps.Searcher, m.deps.Distances, m.deps.Repository, opts...),
		repo:     m.deps.Repository,
		lastUsed: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// Get returns an open session and marks it as used.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Close disposes a session, cancels its in-flight search and disconnects
// its subscribers.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.dispose(s)
	return nil
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		m.dispose(s)
	}
}

// CloseIdle closes every session not used for longer than idle and returns
// how many were closed.
func (m *Manager) CloseIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.dispose(s)
	}
	return len(expired)
}

// RunSweeper closes idle sessions every interval until ctx is done. A
// non-positive idle or interval disables sweeping.
func (m *Manager) RunSweeper(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CloseIdle(idle); n > 0 {
				log.Printf("[session] closed %d idle session(s)", n)
			}
		}
	}
}

func (m *Manager) dispose(s *Session) {
	s.Map.Close()
	if m.deps.Publisher != nil {
		m.deps.Publisher.Disconnect(s.ID.String())
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

type forwarder struct {
	id  string
	pub Publisher
}

func (f *forwarder) StateChanged(state model.MapUiState) { f.pub.PublishState(f.id, state) }
func (f *forwarder) Event(event model.MapEvent)          { f.pub.PublishEvent(f.id, event) }
