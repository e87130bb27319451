package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionStore keeps per-browser state in process memory with a sliding
// expiry. Nothing survives a restart.
type SessionStore[T any] struct {
	items  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionStore creates a store whose entries expire ttl after their last
// write. A cleanupInterval of zero disables the background janitor.
func NewSessionStore[T any](ttl, cleanupInterval time.Duration, logger *zap.Logger) *SessionStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore[T]{
		items:  gocache.New(ttl, cleanupInterval),
		ttl:    ttl,
		logger: logger,
	}
}

// OnEvicted registers a callback run when an entry expires or is deleted.
func (s *SessionStore[T]) OnEvicted(fn func(id string, value T)) {
	s.items.OnEvicted(func(id string, v any) {
		if value, ok := v.(T); ok {
			fn(id, value)
		}
	})
}

// Get returns the session state for id.
func (s *SessionStore[T]) Get(id string) (T, bool) {
	var zero T
	v, found := s.items.Get(id)
	if !found {
		return zero, false
	}
	value, ok := v.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Set stores state for id and restarts its expiry.
func (s *SessionStore[T]) Set(id string, value T) {
	s.items.Set(id, value, gocache.DefaultExpiration)
	s.logger.Debug("Session stored", zap.String("session_id", id), zap.Duration("ttl", s.ttl))
}

// Delete drops the session.
func (s *SessionStore[T]) Delete(id string) {
	s.items.Delete(id)
}

// Count returns the number of sessions, including expired ones not yet
// collected.
func (s *SessionStore[T]) Count() int {
	return s.items.ItemCount()
}

// DeleteExpired collects expired sessions immediately.
func (s *SessionStore[T]) DeleteExpired() {
	s.items.DeleteExpired()
}
