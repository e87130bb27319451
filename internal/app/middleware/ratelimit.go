package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
)

// RateLimiter tracks request rates per client
type RateLimiter struct {
	clients map[string]*ClientLimit
	mu      sync.RWMutex
	logger  *zap.Logger
	now     func() time.Time

	// Configuration
	maxRequests     int           // Maximum requests allowed
	window          time.Duration // Time window for rate limiting
	cleanupInterval time.Duration // How often to clean up old entries

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// ClientLimit tracks requests for a single client
type ClientLimit struct {
	requests []time.Time
	mu       sync.Mutex
	lastSeen time.Time
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is how long until the oldest counted request leaves the window.
	Reset time.Duration
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop.
// Call Stop to end the loop.
func NewRateLimiter(logger *zap.Logger, maxRequests int, window time.Duration) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := &RateLimiter{
		clients:         make(map[string]*ClientLimit),
		logger:          logger,
		now:             time.Now,
		maxRequests:     maxRequests,
		window:          window,
		cleanupInterval: window * 2, // Cleanup twice as slow as the window
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the cleanup goroutine and waits for it to exit.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// cleanup removes old client entries periodically
func (rl *RateLimiter) cleanup() {
	defer close(rl.done)
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// Sweep drops clients not seen for two windows.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for clientID, limit := range rl.clients {
		limit.mu.Lock()
		if now.Sub(limit.lastSeen) > rl.window*2 {
			delete(rl.clients, clientID)
		}
		limit.mu.Unlock()
	}
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

// client returns the entry for clientID, creating it when missing. It is
// called with rl.mu read-locked and returns with it read-locked, so Sweep
// cannot drop the entry while the caller updates it.
func (rl *RateLimiter) client(clientID string) *ClientLimit {
	for {
		if client, exists := rl.clients[clientID]; exists {
			return client
		}

		rl.mu.RUnlock()
		rl.mu.Lock()
		if _, exists := rl.clients[clientID]; !exists {
			rl.clients[clientID] = &ClientLimit{
				requests: make([]time.Time, 0, rl.maxRequests),
				lastSeen: rl.now(),
			}
		}
		rl.mu.Unlock()
		rl.mu.RLock()
	}
}

// Allow checks if a request from clientID should be allowed
func (rl *RateLimiter) Allow(clientID string) Decision {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	client := rl.client(clientID)

	client.mu.Lock()
	defer client.mu.Unlock()

	now := rl.now()
	client.lastSeen = now

	// Remove requests outside the time window
	cutoff := now.Add(-rl.window)
	valid := client.requests[:0]
	for _, reqTime := range client.requests {
		if reqTime.After(cutoff) {
			valid = append(valid, reqTime)
		}
	}
	client.requests = valid

	d := Decision{Limit: rl.maxRequests}
	if len(client.requests) > 0 {
		d.Reset = client.requests[0].Add(rl.window).Sub(now)
	} else {
		d.Reset = rl.window
	}

	if len(client.requests) >= rl.maxRequests {
		rl.logger.Warn("Rate limit exceeded",
			zap.String("client_id", clientID),
			zap.Int("requests", len(client.requests)),
			zap.Int("max_requests", rl.maxRequests),
			zap.Duration("window", rl.window))
		return d
	}

	client.requests = append(client.requests, now)
	d.Allowed = true
	d.Remaining = rl.maxRequests - len(client.requests)
	return d
}

// RateLimitMiddleware returns a Gin middleware applying rl per client IP.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := rl.Allow(c.ClientIP())

		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(d.Reset.Seconds()))))

		if !d.Allowed {
			metrics.Get().RateLimitedTotal.Add(c.Request.Context(), 1,
				metric.WithAttributes(attribute.String("path", c.FullPath())))
			h.Set("Retry-After", h.Get("RateLimit-Reset"))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Error:   "⚠️ SYSTEM OVERHEAT",
				Message: "너무 많은 요청이 들어왔어요. 잠시 후에 다시 시도해 주세요.",
			})
			return
		}

		c.Next()
	}
}
