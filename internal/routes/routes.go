package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/domain/consultation"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/llm"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/middleware"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/cache"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
)

// AppHandlers holds the wired application components.
type AppHandlers struct {
	Consultation *consultation.Handler
	Service      consultation.Service
	Caches       *cache.CacheManager
	Limiter      *middleware.RateLimiter
}

// Close stops background work started by Setup.
func (h *AppHandlers) Close() {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
}

// Setup builds the application dependencies and registers the API routes.
func Setup(ctx context.Context, r *gin.Engine, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	handlers, err := setupDependencies(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	setupRouter(r, handlers, log)
	return handlers, nil
}

func setupDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	caches := cache.NewCacheManager(cfg.LLM.CacheTTL, cfg.LLM.CacheSize, log)

	llmClient, err := llm.New(ctx, cfg.LLM, caches.Responses, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	prompts, err := consultation.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	lunar := ganzhi.LunarGo{}
	service := consultation.NewService(
		ganzhi.NewCalculator(lunar),
		lunar,
		llmClient,
		prompts,
		consultation.NewSanitizer(),
		consultation.NewSessions(cfg.Chat, log),
		log,
	)

	return &AppHandlers{
		Consultation: consultation.NewHandler(service, log),
		Service:      service,
		Caches:       caches,
		Limiter:      middleware.NewRateLimiter(log, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		limited := api.Group("", middleware.RateLimitMiddleware(h.Limiter))
		limited.POST("/saju/consultation", h.Consultation.SajuConsultation)
		limited.POST("/astrology/consultation", h.Consultation.AstrologyConsultation)
		limited.POST("/saju/chat", h.Consultation.SajuChat)
		limited.POST("/astrology/chat", h.Consultation.AstrologyChat)
	}

	log.Info("API routes registered", zap.Int("routes", len(r.Routes())))
}

// health reports liveness plus whether a model is configured.
func (h *AppHandlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"llm":    h.Service.Ready(),
		"caches": h.Caches.GetAllMetrics(),
	})
}
