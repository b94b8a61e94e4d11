package app

import (
	"context"

	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// NewOfflinePlanner builds an orchestrator with no cache and no shared
// stores, for one-shot generation outside the server. With useAI false (or
// no provider configured) every plan comes from the fallback generator.
func NewOfflinePlanner(ctx context.Context, log *logger.Logger, cfg Config, useAI bool) (*planner.Orchestrator, error) {
	if !useAI {
		cfg.AIProvider = AIProviderNone
	}
	cfg.RedisAddr = ""
	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	var requester planner.Requester
	if clients.AI != nil {
		requester = planner.NewAIRequester(log, clients.AI, nil)
	}
	return planner.NewOrchestrator(log, nil, requester, planner.NewFallback(nil), nil, planner.OrchestratorConfig{
		AITimeout: cfg.AITimeout,
	}), nil
}
