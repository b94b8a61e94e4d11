package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

const DefaultAITimeout = 12 * time.Second

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceCache    = "cache"
)

// PlanCache stores plans by input fingerprint. Implementations expire
// entries on their own; a miss and an expired entry look the same.
type PlanCache interface {
	Get(ctx context.Context, key string) (*plan.Plan, bool, error)
	Set(ctx context.Context, key string, p *plan.Plan) error
}

// Requester produces an AI plan or an error wrapping ErrAIGeneration.
type Requester interface {
	Request(ctx context.Context, in plan.CanonicalInput) (*plan.Plan, error)
}

type Result struct {
	Plan        plan.Plan
	Source      string
	Fingerprint string
}

type OrchestratorConfig struct {
	AITimeout time.Duration
}

type Orchestrator struct {
	log      *logger.Logger
	cache    PlanCache
	ai       Requester
	fallback *Fallback
	metrics  *observability.Metrics
	timeout  time.Duration
	inflight singleflight.Group
}

// NewOrchestrator wires the generation pipeline. ai may be nil, in which case
// every miss goes straight to the fallback. cache may be nil to disable caching.
func NewOrchestrator(log *logger.Logger, cache PlanCache, ai Requester, fallback *Fallback, metrics *observability.Metrics, cfg OrchestratorConfig) *Orchestrator {
	if fallback == nil {
		fallback = NewFallback(nil)
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultAITimeout
	}
	return &Orchestrator{
		log:      log.With("service", "PlanOrchestrator"),
		cache:    cache,
		ai:       ai,
		fallback: fallback,
		metrics:  metrics,
		timeout:  cfg.AITimeout,
	}
}

// Generate always returns a valid plan: cached, AI-generated, or the
// deterministic fallback. The returned plan carries the input annotations.
func (o *Orchestrator) Generate(ctx context.Context, in plan.CanonicalInput) Result {
	ctx, span := observability.Tracer().Start(ctx, "planner.generate")
	defer span.End()

	fp := Fingerprint(in)
	span.SetAttributes(attribute.String("planner.fingerprint", fp))

	if p, ok := o.lookup(ctx, fp); ok {
		o.log.Debug("plan cache hit", append(ctxutil.LogFields(ctx), "fingerprint", fp)...)
		o.metrics.ObservePlan(SourceCache)
		span.SetAttributes(attribute.String("planner.source", SourceCache))
		return Result{Plan: p.Annotate(in), Source: SourceCache, Fingerprint: fp}
	}

	// Identical concurrent misses share one generation. The shared work must
	// not die with whichever caller started it.
	v, _, _ := o.inflight.Do(fp, func() (any, error) {
		return o.generateAndStore(context.WithoutCancel(ctx), in, fp), nil
	})
	res := v.(Result)
	o.metrics.ObservePlan(res.Source)
	span.SetAttributes(attribute.String("planner.source", res.Source))
	res.Plan = res.Plan.Annotate(in)
	return res
}

func (o *Orchestrator) lookup(ctx context.Context, fp string) (*plan.Plan, bool) {
	if o.cache == nil {
		return nil, false
	}
	p, ok, err := o.cache.Get(ctx, fp)
	if err != nil {
		o.log.Warn("plan cache read failed", append(ctxutil.LogFields(ctx), "fingerprint", fp, "error", err.Error())...)
		return nil, false
	}
	return p, ok && p != nil
}

func (o *Orchestrator) generateAndStore(ctx context.Context, in plan.CanonicalInput, fp string) Result {
	source := SourceAI
	p, err := o.race(ctx, in)
	if err != nil {
		source = SourceFallback
		if !errors.Is(err, errNoAI) {
			o.log.Warn("AI plan generation failed, using fallback",
				append(ctxutil.LogFields(ctx), "fingerprint", fp, "error", err.Error())...,
			)
		}
		fb := o.fallback.Generate(in)
		p = &fb
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, fp, p); err != nil {
			o.log.Warn("plan cache write failed", append(ctxutil.LogFields(ctx), "fingerprint", fp, "error", err.Error())...)
		}
	}
	return Result{Plan: *p, Source: source, Fingerprint: fp}
}

var errNoAI = fmt.Errorf("%w: no AI provider configured", ErrAIGeneration)

type aiOutcome struct {
	plan *plan.Plan
	err  error
}

// race runs the AI requester against the timeout. The AI goroutine only
// writes to a buffered channel, so a late result is dropped without touching
// shared state. Losing the race cancels the outbound call.
func (o *Orchestrator) race(ctx context.Context, in plan.CanonicalInput) (*plan.Plan, error) {
	if o.ai == nil {
		return nil, errNoAI
	}
	aiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan aiOutcome, 1)
	go func() {
		p, err := o.ai.Request(aiCtx, in)
		done <- aiOutcome{plan: p, err: err}
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		if out.plan == nil {
			return nil, fmt.Errorf("%w: empty plan", ErrAIGeneration)
		}
		return out.plan, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: request timeout (%s exceeded)", ErrAIGeneration, o.timeout)
	}
}

// Deterministic exposes the fallback generator for callers that never want
// the AI path (CLI dry runs, skill suggestions).
func (o *Orchestrator) Deterministic(in plan.CanonicalInput) plan.Plan {
	return o.fallback.Generate(in).Annotate(in)
}
