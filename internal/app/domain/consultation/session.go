package consultation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/cache"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
)

// ChatSession is the follow-up state of one browser for one reading kind.
type ChatSession struct {
	Turns   int
	History []models.ChatTurn
	// Pending counts questions sent to the model but not yet answered.
	Pending int
}

// Sessions enforces the follow-up limit and keeps recent history.
type Sessions struct {
	mu          sync.Mutex
	store       *cache.SessionStore[*ChatSession]
	limit       int
	historySize int
	logger      *zap.Logger
}

// NewSessions creates the in-memory session registry.
func NewSessions(cfg config.ChatConfig, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := cache.NewSessionStore[*ChatSession](cfg.SessionTTL, cleanupInterval(cfg.SessionTTL), logger)
	store.OnEvicted(func(string, *ChatSession) {
		metrics.Get().ChatSessionsActive.Add(context.Background(), -1)
	})
	return &Sessions{
		store:       store,
		limit:       cfg.TurnLimit,
		historySize: cfg.HistorySize,
		logger:      logger,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/2, time.Minute)
}

func sessionKey(sessionID string, kind models.ReadingKind) string {
	return sessionID + ":" + string(kind)
}

// Limit is the number of follow-up questions allowed per consultation.
func (s *Sessions) Limit() int { return s.limit }

// Reset starts a fresh session, as after a new consultation.
func (s *Sessions) Reset(sessionID string, kind models.ReadingKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(sessionKey(sessionID, kind))
	s.logger.Debug("Chat session reset", zap.String("session_id", sessionID), zap.String("kind", string(kind)))
}

// Reserve claims one turn and returns the history to send with it. It fails
// with models.ErrChatLimitReached once the limit is used up.
func (s *Sessions) Reserve(sessionID string, kind models.ReadingKind) ([]models.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(sessionID, kind)
	sess, ok := s.store.Get(key)
	if !ok {
		sess = s.create(key)
	}
	if sess.Turns+sess.Pending >= s.limit {
		return nil, models.ErrChatLimitReached
	}
	sess.Pending++
	s.store.Set(key, sess)

	history := make([]models.ChatTurn, len(sess.History))
	copy(history, sess.History)
	return history, nil
}

// Complete records an answered turn and returns how many remain.
func (s *Sessions) Complete(sessionID string, kind models.ReadingKind, turn models.ChatTurn) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(sessionID, kind)
	sess, ok := s.store.Get(key)
	if !ok {
		sess = s.create(key)
	}
	if sess.Pending > 0 {
		sess.Pending--
	}
	sess.Turns++
	sess.History = append(sess.History, turn)
	if s.historySize > 0 && len(sess.History) > s.historySize {
		sess.History = sess.History[len(sess.History)-s.historySize:]
	}
	s.store.Set(key, sess)
	return max(s.limit-sess.Turns-sess.Pending, 0)
}

// Release gives back a reserved turn whose answer never arrived.
func (s *Sessions) Release(sessionID string, kind models.ReadingKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(sessionID, kind)
	if sess, ok := s.store.Get(key); ok && sess.Pending > 0 {
		sess.Pending--
		s.store.Set(key, sess)
	}
}

// Remaining reports the unused turns of a session.
func (s *Sessions) Remaining(sessionID string, kind models.ReadingKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.store.Get(sessionKey(sessionID, kind))
	if !ok {
		return s.limit
	}
	return max(s.limit-sess.Turns-sess.Pending, 0)
}

// create must be called with mu held. The delete fires the eviction
// callback for an expired entry that is still stored.
func (s *Sessions) create(key string) *ChatSession {
	s.store.Delete(key)
	sess := &ChatSession{}
	s.store.Set(key, sess)
	metrics.Get().ChatSessionsActive.Add(context.Background(), 1)
	return sess
}
