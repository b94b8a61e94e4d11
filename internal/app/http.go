package app

import (
	apphttp "github.com/yungbote/upskill-backend/internal/http"
	httpH "github.com/yungbote/upskill-backend/internal/http/handlers"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Plan       *httpH.PlanHandler
	Lead       *httpH.LeadHandler
	Event      *httpH.EventHandler
	Suggestion *httpH.SuggestionHandler
}

func wireHandlers(log *logger.Logger, services Services, pinger httpH.Pinger, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(pinger, metrics),
		Plan:       httpH.NewPlanHandler(services.Plan),
		Lead:       httpH.NewLeadHandler(services.Lead),
		Event:      httpH.NewEventHandler(services.Event),
		Suggestion: httpH.NewSuggestionHandler(services.Suggestion),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, stores Stores, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		MetricsEnabled:    cfg.MetricsEnabled,
		RateLimiter:       stores.RateLimiter,
		CORSOrigins:       cfg.CORSOrigins,
		PlanHandler:       handlers.Plan,
		LeadHandler:       handlers.Lead,
		EventHandler:      handlers.Event,
		SuggestionHandler: handlers.Suggestion,
		HealthHandler:     handlers.Health,
	})
}
