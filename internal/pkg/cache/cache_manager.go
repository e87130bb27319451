package cache

import (
	"time"

	"go.uber.org/zap"
)

// CacheManager holds all application caches
type CacheManager struct {
	// Generated consultation and chat texts keyed by prompt hash
	Responses *UnifiedCache[string]
}

// NewCacheManager creates the application caches
func NewCacheManager(responseTTL time.Duration, responseSize int, logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Responses: NewUnifiedCache[string](responseTTL, responseSize, "llm_responses", logger),
	}
}

// GetAllMetrics returns metrics for all caches
func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		cm.Responses.Name(): cm.Responses.GetMetrics(),
	}
}

// ClearAll clears all caches
func (cm *CacheManager) ClearAll() {
	cm.Responses.Clear()
}
