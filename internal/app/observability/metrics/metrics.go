package metrics

import (
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "auriton-insight"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	LLMRequestsTotal    metric.Int64Counter
	LLMRequestDuration  metric.Float64Histogram
	LLMErrorsTotal      metric.Int64Counter
	LLMCacheHitsTotal   metric.Int64Counter
	RateLimitedTotal    metric.Int64Counter
	PillarComputations  metric.Int64Counter
	ChatSessionsActive  metric.Int64UpDownCounter
	ChatTurnsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	initErr    error
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider.
// Only the first call does any work.
func InitAppMetrics() error {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		m := &AppMetrics{}
		var errs []error
		check := func(name string, err error) {
			if err != nil {
				errs = append(errs, fmt.Errorf("create %s: %w", name, err))
			}
		}

		var err error
		m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"))
		check("http_requests_total", err)

		m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"))
		check("http_request_duration_seconds", err)

		m.LLMRequestsTotal, err = meter.Int64Counter("llm_requests_total",
			metric.WithDescription("Requests sent to the language model"),
			metric.WithUnit("{request}"))
		check("llm_requests_total", err)

		m.LLMRequestDuration, err = meter.Float64Histogram("llm_request_duration_seconds",
			metric.WithDescription("Latency of language model calls in seconds"),
			metric.WithUnit("s"))
		check("llm_request_duration_seconds", err)

		m.LLMErrorsTotal, err = meter.Int64Counter("llm_errors_total",
			metric.WithDescription("Language model calls that failed after retries"),
			metric.WithUnit("{error}"))
		check("llm_errors_total", err)

		m.LLMCacheHitsTotal, err = meter.Int64Counter("llm_cache_hits_total",
			metric.WithDescription("Prompts answered from the response cache"),
			metric.WithUnit("{hit}"))
		check("llm_cache_hits_total", err)

		m.RateLimitedTotal, err = meter.Int64Counter("rate_limited_requests_total",
			metric.WithDescription("Requests rejected by the rate limiter"),
			metric.WithUnit("{request}"))
		check("rate_limited_requests_total", err)

		m.PillarComputations, err = meter.Int64Counter("pillar_computations_total",
			metric.WithDescription("Four pillar calculations performed"),
			metric.WithUnit("{computation}"))
		check("pillar_computations_total", err)

		m.ChatSessionsActive, err = meter.Int64UpDownCounter("chat_sessions_active",
			metric.WithDescription("Chat sessions currently held in memory"),
			metric.WithUnit("{session}"))
		check("chat_sessions_active", err)

		m.ChatTurnsTotal, err = meter.Int64Counter("chat_turns_total",
			metric.WithDescription("Follow-up chat questions answered"),
			metric.WithUnit("{turn}"))
		check("chat_turns_total", err)

		if len(errs) > 0 {
			initErr = errors.Join(errs...)
			return
		}
		appMetrics = m
	})
	return initErr
}

// Get returns the initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
