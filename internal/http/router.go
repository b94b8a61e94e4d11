package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/upskill-backend/internal/data/kv"
	httpH "github.com/yungbote/upskill-backend/internal/http/handlers"
	httpMW "github.com/yungbote/upskill-backend/internal/http/middleware"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

const serviceName = "upskill-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	MetricsEnabled bool
	RateLimiter    kv.RateLimiter
	CORSOrigins    []string

	PlanHandler       *httpH.PlanHandler
	LeadHandler       *httpH.LeadHandler
	EventHandler      *httpH.EventHandler
	SuggestionHandler *httpH.SuggestionHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
		if cfg.MetricsEnabled {
			r.GET("/metrics", cfg.HealthHandler.Metrics)
		}
	}

	// Plan generation (rate limited before the body is read)
	if cfg.PlanHandler != nil {
		r.POST("/generate-plan", httpMW.RateLimit(cfg.RateLimiter, cfg.Metrics, cfg.Log), cfg.PlanHandler.GeneratePlan)
	}

	// Leads and shared plans
	if cfg.LeadHandler != nil {
		r.POST("/leads", cfg.LeadHandler.CaptureLead)
		r.GET("/plan/:token", cfg.LeadHandler.GetPlan)
		r.POST("/send-plan", cfg.LeadHandler.SendPlan)
	}

	// Events
	if cfg.EventHandler != nil {
		r.POST("/track", cfg.EventHandler.Track)
	}

	// Onboarding helpers
	if cfg.SuggestionHandler != nil {
		r.POST("/suggest-roles", cfg.SuggestionHandler.SuggestRoles)
		r.POST("/generate-skills", cfg.SuggestionHandler.GenerateSkills)
	}

	return r
}
