package app

import (
	"strings"
	"time"

	"github.com/yungbote/upskill-backend/internal/data/db"
	"github.com/yungbote/upskill-backend/internal/data/kv"
	"github.com/yungbote/upskill-backend/internal/http/middleware"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/platform/envutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

const (
	AIProviderOpenAI = "openai"
	AIProviderGemini = "gemini"
	AIProviderNone   = "none"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Config

	RedisAddr string
	RateLimit kv.RateLimitConfig
	PlanTTL   time.Duration

	AIProvider string
	AITimeout  time.Duration

	AppBaseURL  string
	CORSOrigins []string

	MetricsEnabled bool
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	provider := strings.ToLower(envutil.String("AI_PROVIDER", AIProviderOpenAI))
	switch provider {
	case AIProviderOpenAI, AIProviderGemini, AIProviderNone:
	default:
		log.Warn("Unknown AI_PROVIDER, plans will use the fallback generator", "ai_provider", provider)
		provider = AIProviderNone
	}

	cfg := Config{
		Port:      envutil.String("PORT", "8080"),
		LogMode:   envutil.String("LOG_MODE", "development"),
		DB:        db.ConfigFromEnv(),
		RedisAddr: envutil.String("REDIS_ADDR", ""),
		RateLimit: kv.RateLimitConfig{
			Max:    envutil.Int("RATE_LIMIT_MAX", kv.DefaultRateLimitMax),
			Window: envutil.Seconds("RATE_LIMIT_WINDOW_SECONDS", kv.DefaultRateLimitWindow),
		},
		PlanTTL:        envutil.Seconds("PLAN_CACHE_TTL_SECONDS", kv.DefaultPlanTTL),
		AIProvider:     provider,
		AITimeout:      envutil.Millis("AI_TIMEOUT_MS", planner.DefaultAITimeout),
		AppBaseURL:     strings.TrimRight(envutil.String("APP_BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins:    envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		Environment:    envutil.String("APP_ENV", "development"),
		Version:        envutil.String("APP_VERSION", "dev"),
	}
	if cfg.RateLimit.Max <= 0 {
		cfg.RateLimit.Max = kv.DefaultRateLimitMax
	}
	return cfg
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
