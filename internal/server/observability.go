package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/tracer"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
)

// ObservabilityShutdownFunc is the function type returned by InitObservability
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and application metrics
func InitObservability(cfg config.ObservabilityConfig, version string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	otelShutdown, err := tracer.InitOtelProviders(tracer.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		MetricsAddr:    cfg.MetricsAddr,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	if err := metrics.InitAppMetrics(); err != nil {
		_ = otelShutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	logger.Info("Observability initialized", zap.String("metrics_endpoint", cfg.MetricsAddr+"/metrics"))

	return otelShutdown, nil
}
