package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/cache"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
)

var errEmptyResponse = errors.New("model returned no text")

// ContentGenerator is the part of the Gemini SDK the client needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator produces text for a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Available() bool
}

// Request is one call to the model.
type Request struct {
	// Kind labels the call in traces and metrics.
	Kind    string
	System  string
	Prompt  string
	History []models.ChatTurn
	NoCache bool
}

// Response carries the generated text.
type Response struct {
	Text     string
	CacheHit bool
}

// Client calls Gemini with retries, caching and telemetry.
type Client struct {
	gen        ContentGenerator
	cfg        config.LLMConfig
	responses  *cache.UnifiedCache[string]
	logger     *zap.Logger
	retryDelay time.Duration
}

var _ Generator = (*Client)(nil)

// New connects to the Gemini API. Without an API key the client is still
// returned but every call fails with models.ErrLLMUnavailable.
func New(ctx context.Context, cfg config.LLMConfig, responses *cache.UnifiedCache[string], logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, consultations are disabled")
		return NewWithGenerator(nil, cfg, responses, logger), nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewWithGenerator(gc.Models, cfg, responses, logger), nil
}

// NewWithGenerator wires an existing generator. responses may be nil to
// disable caching.
func NewWithGenerator(gen ContentGenerator, cfg config.LLMConfig, responses *cache.UnifiedCache[string], logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gen:        gen,
		cfg:        cfg,
		responses:  responses,
		logger:     logger,
		retryDelay: 500 * time.Millisecond,
	}
}

// SetRetryDelay changes the base backoff delay.
func (c *Client) SetRetryDelay(d time.Duration) { c.retryDelay = d }

// Available reports whether the client can reach a model.
func (c *Client) Available() bool { return c.gen != nil }

// Generate sends the prompt with any chat history and returns the text.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	ctx, span := otel.Tracer("llmClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.model", c.cfg.Model),
		attribute.String("llm.kind", req.Kind),
		attribute.Int("llm.history_turns", len(req.History)),
	))
	defer span.End()

	l := c.logger.With(zap.String("method", "Generate"), zap.String("kind", req.Kind))
	m := metrics.Get()
	kindAttr := metric.WithAttributes(attribute.String("kind", req.Kind))

	if !c.Available() {
		span.SetStatus(codes.Error, "model not configured")
		return Response{}, models.ErrLLMUnavailable
	}

	key := ""
	if c.responses != nil && !req.NoCache {
		var err error
		key, err = cache.NewCacheKeyBuilder().
			Add("model", c.cfg.Model).
			Add("system", req.System).
			Add("history", req.History).
			Add("prompt", req.Prompt).
			Build()
		if err != nil {
			l.Warn("Could not build cache key", zap.Error(err))
		} else if text, ok := c.responses.Get(key); ok {
			m.LLMCacheHitsTotal.Add(ctx, 1, kindAttr)
			span.SetAttributes(attribute.Bool("llm.cache_hit", true))
			span.SetStatus(codes.Ok, "served from cache")
			return Response{Text: text, CacheHit: true}, nil
		}
	}

	start := time.Now()
	m.LLMRequestsTotal.Add(ctx, 1, kindAttr)
	text, err := retry.DoWithData(
		func() (string, error) { return c.call(ctx, req) },
		retry.Context(ctx),
		retry.Attempts(max(c.cfg.MaxAttempts, 1)),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			l.Warn("Retrying Gemini call", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	m.LLMRequestDuration.Record(ctx, time.Since(start).Seconds(), kindAttr)
	if err != nil {
		m.LLMErrorsTotal.Add(ctx, 1, kindAttr)
		l.Error("Gemini call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return Response{}, fmt.Errorf("%w: %w", models.ErrLLMFailure, err)
	}

	if key != "" {
		c.responses.Set(key, text)
	}
	l.Info("Gemini call succeeded", zap.Int("chars", len([]rune(text))), zap.Duration("elapsed", time.Since(start)))
	span.SetStatus(codes.Ok, "generated")
	return Response{Text: text}, nil
}

func (c *Client) call(ctx context.Context, req Request) (string, error) {
	callCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.gen.GenerateContent(callCtx, c.cfg.Model, buildContents(req), c.generationConfig(req))
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func (c *Client) generationConfig(req Request) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.cfg.Temperature),
		TopP:            genai.Ptr(c.cfg.TopP),
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	return gc
}

func buildContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)*2+1)
	for _, turn := range req.History {
		contents = append(contents,
			genai.NewContentFromText(turn.Question, genai.RoleUser),
			genai.NewContentFromText(turn.Answer, genai.RoleModel),
		)
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

// IsTransient decides whether a failed call is worth repeating.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errEmptyResponse) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{"rate limit", "quota", "timeout", "unavailable", "connection reset", "502", "503", "504"} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
