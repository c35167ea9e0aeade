package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/money"
)

// Session is one cart lifetime: a store, the view over it, and the lock that
// makes each event handler run to completion before the next one starts.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	view     *CartView
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's view
func (s *Session) Do(fn func(view *CartView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.view)
}

// SessionRegistry holds the cart sessions of the server. Ids are always
// minted here; a client can only resume a session the registry handed out.
type SessionRegistry struct {
	source      CartSource
	hook        MutationHook
	formatter   *money.Formatter
	idleTTL     time.Duration
	maxSessions int
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionRegistry creates an empty registry holding at most maxSessions
// sessions at a time.
func NewSessionRegistry(source CartSource, hook MutationHook, formatter *money.Formatter, idleTTL time.Duration, maxSessions int, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		source:      source,
		hook:        hook,
		formatter:   formatter,
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

// Get returns an existing session
func (r *SessionRegistry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

// Create starts an unloaded session under a fresh id. When the registry is
// full it first drops idle sessions, then the least recently seen one.
func (r *SessionRegistry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.sweepLocked()
	}
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}

	id := uuid.New()
	store := NewCartStore(id, r.source, r.hook, r.logger)
	s := &Session{
		ID:       id,
		view:     NewCartView(store, r.formatter, r.logger),
		lastSeen: r.now(),
	}
	r.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.logger.Debug("Session created", zap.String("session_id", id.String()))
	return s
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

func (r *SessionRegistry) sweepLocked() int {
	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	if evicted > 0 {
		metrics.SessionEvictionsTotal.WithLabelValues("idle").Add(float64(evicted))
		r.logger.Info("Evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

func (r *SessionRegistry) evictOldestLocked() {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest == nil {
		return
	}
	delete(r.sessions, oldest.ID)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	metrics.SessionEvictionsTotal.WithLabelValues("capacity").Inc()
	r.logger.Warn("Session cap reached, evicted least recent session",
		zap.String("session_id", oldest.ID.String()),
		zap.Int("max_sessions", r.maxSessions),
	)
}

// Run sweeps on every tick until ctx is cancelled
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
