// Package session keeps per-dashboard analysis state in memory
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/models"
)

// Session is one dashboard session and its latest analysis result.
// Analysis is nil until the first analyze run completes.
type Session struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	LastUsed  time.Time        `json:"last_used"`
	Analysis  *models.Analysis `json:"-"`
}

// Registry is a mutex-guarded in-memory session store. Sessions idle
// longer than the TTL are evicted lazily on access and on Prune.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *common.Logger
	now      func() time.Time
}

// NewRegistry creates a session registry with the given idle TTL
func NewRegistry(ttl time.Duration, logger *common.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source (testing only).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Create registers a new session and returns a copy of it.
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		LastUsed:  now,
	}
	r.sessions[s.ID] = s

	r.logger.Debug().Str("session", s.ID).Msg("Session created")
	snapshot := *s
	return &snapshot
}

// Get returns a copy of the session with the given ID, refreshing its idle
// timer. Callers read the copy without holding the registry lock; stored
// sessions are only written under it. Expired sessions are dropped and
// reported as missing.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(s, now) {
		delete(r.sessions, id)
		r.logger.Debug().Str("session", id).Msg("Session expired")
		return nil, false
	}
	s.LastUsed = now
	snapshot := *s
	return &snapshot, true
}

// SetAnalysis stores an analysis result on a session.
func (r *Registry) SetAnalysis(id string, analysis *models.Analysis) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || r.expired(s, r.now()) {
		return false
	}
	s.Analysis = analysis
	s.LastUsed = r.now()
	return true
}

// Prune drops every expired session and returns how many were removed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug().Int("removed", removed).Msg("Pruned expired sessions")
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.LastUsed) > r.ttl
}
