package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
	"github.com/yungbote/upskill-backend/internal/services"
)

type Services struct {
	Orchestrator *planner.Orchestrator
	Plan         services.PlanService
	Lead         services.LeadService
	Event        services.EventService
	Mail         services.MailService
	Suggestion   services.SuggestionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, stores Stores, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	catalog := planner.DefaultCatalog()
	fallback := planner.NewFallback(catalog)

	var requester planner.Requester
	var textGen services.TextGenerator
	if clients.AI != nil {
		requester = planner.NewAIRequester(log, clients.AI, metrics)
		textGen = clients.AI
	}
	orchestrator := planner.NewOrchestrator(log, stores.PlanCache, requester, fallback, metrics, planner.OrchestratorConfig{
		AITimeout: cfg.AITimeout,
	})

	mail := services.NewMailService(log, clients.SendGrid, services.MailConfig{AppBaseURL: cfg.AppBaseURL})

	return Services{
		Orchestrator: orchestrator,
		Plan:         services.NewPlanService(log, orchestrator),
		Lead:         services.NewLeadService(db, log, reposet.Lead, reposet.Event, mail),
		Event:        services.NewEventService(db, log, reposet.Event),
		Mail:         mail,
		Suggestion:   services.NewSuggestionService(log, textGen, catalog),
	}
}
