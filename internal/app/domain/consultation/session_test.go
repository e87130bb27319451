package consultation

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
)

func TestMain(m *testing.M) {
	if err := metrics.InitAppMetrics(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestSessions(limit, history int) *Sessions {
	return NewSessions(config.ChatConfig{TurnLimit: limit, SessionTTL: time.Hour, HistorySize: history}, nil)
}

func TestSessions_Limit(t *testing.T) {
	s := newTestSessions(2, 6)

	assert.Equal(t, 2, s.Remaining("sid", models.KindSaju))

	_, err := s.Reserve("sid", models.KindSaju)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Complete("sid", models.KindSaju, models.ChatTurn{Question: "q1", Answer: "a1"}))

	history, err := s.Reserve("sid", models.KindSaju)
	require.NoError(t, err)
	assert.Equal(t, []models.ChatTurn{{Question: "q1", Answer: "a1"}}, history)
	assert.Equal(t, 0, s.Complete("sid", models.KindSaju, models.ChatTurn{Question: "q2", Answer: "a2"}))

	_, err = s.Reserve("sid", models.KindSaju)
	assert.ErrorIs(t, err, models.ErrChatLimitReached)

	t.Run("kinds are independent", func(t *testing.T) {
		_, err := s.Reserve("sid", models.KindAstrology)
		assert.NoError(t, err)
	})

	t.Run("reset restores the allowance", func(t *testing.T) {
		s.Reset("sid", models.KindSaju)
		assert.Equal(t, 2, s.Remaining("sid", models.KindSaju))
		history, err := s.Reserve("sid", models.KindSaju)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestSessions_Release(t *testing.T) {
	s := newTestSessions(1, 6)

	_, err := s.Reserve("sid", models.KindSaju)
	require.NoError(t, err)
	_, err = s.Reserve("sid", models.KindSaju)
	assert.ErrorIs(t, err, models.ErrChatLimitReached)

	s.Release("sid", models.KindSaju)
	_, err = s.Reserve("sid", models.KindSaju)
	assert.NoError(t, err)
}

func TestSessions_HistoryCap(t *testing.T) {
	s := newTestSessions(10, 2)

	for i := range 4 {
		_, err := s.Reserve("sid", models.KindSaju)
		require.NoError(t, err)
		s.Complete("sid", models.KindSaju, models.ChatTurn{Question: fmt.Sprint("q", i), Answer: fmt.Sprint("a", i)})
	}

	history, err := s.Reserve("sid", models.KindSaju)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q2", history[0].Question)
	assert.Equal(t, "q3", history[1].Question)
}

func TestSessions_ConcurrentReserve(t *testing.T) {
	s := newTestSessions(5, 6)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Reserve("sid", models.KindSaju); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, granted)
}
