package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type PlanService interface {
	// Generate validates the raw request body and returns a plan. Only input
	// validation fails; AI problems are absorbed by the fallback.
	Generate(ctx context.Context, body []byte) (*planner.Result, error)
	Deterministic(in plan.CanonicalInput) plan.Plan
}

type planService struct {
	log          *logger.Logger
	orchestrator *planner.Orchestrator
}

func NewPlanService(log *logger.Logger, orchestrator *planner.Orchestrator) PlanService {
	return &planService{
		log:          log.With("service", "PlanService"),
		orchestrator: orchestrator,
	}
}

func (s *planService) Generate(ctx context.Context, body []byte) (*planner.Result, error) {
	in, err := planner.ValidateInputJSON(body)
	if err != nil {
		var ie *planner.InputError
		if errors.As(err, &ie) {
			return nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidInput, err)
		}
		return nil, err
	}
	res := s.orchestrator.Generate(ctx, in)
	return &res, nil
}

func (s *planService) Deterministic(in plan.CanonicalInput) plan.Plan {
	return s.orchestrator.Deterministic(in)
}
