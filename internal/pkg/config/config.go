package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type LLMConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	Timeout         time.Duration
	MaxAttempts     uint
	CacheTTL        time.Duration
	CacheSize       int
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type ChatConfig struct {
	TurnLimit   int
	SessionTTL  time.Duration
	HistorySize int
}

type TLSConfig struct {
	KeyFile  string
	CertFile string
}

// Enabled reports whether both PEM files exist on disk.
func (t TLSConfig) Enabled() bool {
	return fileExists(t.KeyFile) && fileExists(t.CertFile)
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
}

type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	SessionSecret  string
	AllowedOrigins []string
	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string
	BodyLimit      int64
	PromptsFile    string
	LLM            LLMConfig
	RateLimit      RateLimitConfig
	Chat           ChatConfig
	TLS            TLSConfig
	Observability  ObservabilityConfig
}

var defaultOrigins = []string{
	"https://auriton-insight-v2.vercel.app",
	"http://localhost:3000",
	"https://localhost:3000",
}

func Load() (*Config, error) {
	var errs []error
	cfg := &Config{
		ServerPort:     getEnvOrDefault("SERVER_PORT", getEnvOrDefault("PORT", "3000")),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		SessionSecret:  getEnvOrDefault("SESSION_SECRET", "auriton-insight-session-secret"),
		AllowedOrigins: getListOrDefault("CORS_ALLOWED_ORIGINS", defaultOrigins),
		TrustedProxies: getListOrDefault("TRUSTED_PROXIES", nil),
		BodyLimit:      int64(getInt("BODY_LIMIT_BYTES", 50*1024, &errs)),
		PromptsFile:    os.Getenv("PROMPTS_FILE"),
		LLM: LLMConfig{
			APIKey:          os.Getenv("GEMINI_API_KEY"),
			Model:           getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getFloat32("GEMINI_TEMPERATURE", 0.75, &errs),
			TopP:            getFloat32("GEMINI_TOP_P", 0.9, &errs),
			MaxOutputTokens: int32(getInt("GEMINI_MAX_TOKENS", 800, &errs)),
			Timeout:         getDuration("GEMINI_TIMEOUT", 25*time.Second, &errs),
			MaxAttempts:     uint(getInt("GEMINI_MAX_ATTEMPTS", 3, &errs)),
			CacheTTL:        getDuration("LLM_CACHE_TTL", 30*time.Minute, &errs),
			CacheSize:       getInt("LLM_CACHE_SIZE", 1000, &errs),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getInt("RATE_LIMIT_MAX", 15, &errs),
			Window:      getDuration("RATE_LIMIT_WINDOW", 15*time.Minute, &errs),
		},
		Chat: ChatConfig{
			TurnLimit:   getInt("CHAT_TURN_LIMIT", 5, &errs),
			SessionTTL:  getDuration("CHAT_SESSION_TTL", time.Hour, &errs),
			HistorySize: getInt("CHAT_HISTORY_SIZE", 6, &errs),
		},
		TLS: TLSConfig{
			KeyFile:  getEnvOrDefault("SSL_KEY_FILE", "ssl/localhost-key.pem"),
			CertFile: getEnvOrDefault("SSL_CERT_FILE", "ssl/localhost-cert.pem"),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "auriton-insight"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:    getEnvOrDefault("PPROF_ADDR", ":6060"),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errs[0])
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.Chat.TurnLimit < 0 {
		return nil, fmt.Errorf("CHAT_TURN_LIMIT cannot be negative, got %d", cfg.Chat.TurnLimit)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getFloat32(key string, defaultValue float32, errs *[]error) float32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return float32(f)
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
