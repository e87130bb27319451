package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/middleware"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/routes"
)

// SessionName is the cookie holding the chat session.
const SessionName = "auriton"

// SetupRouter configures and returns the Gin router with all middleware
// and routes. The returned AppHandlers must be closed on shutdown.
func SetupRouter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gin.Engine, *routes.AppHandlers, error) {
	gin.SetMode(ginMode(cfg.GinMode))

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/api/health"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, logger))
	r.Use(middleware.BodyLimitMiddleware(cfg.BodyLimit))
	r.Use(middleware.ObservabilityMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Chat.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.TLS.Enabled(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	if err := SetupAssets(r); err != nil {
		return nil, nil, err
	}

	handlers, err := routes.Setup(ctx, r, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return r, handlers, nil
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

// zapContextFunc returns the Zap context function for logging
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		// OTEL trace/span IDs (from context)
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if ip := c.ClientIP(); ip != "" {
			fields = append(fields, zap.String("client_ip", ip))
		}

		return fields
	}
}
