package kv

import (
	"context"
	"math"
	"time"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

const (
	DefaultPlanTTL         = 24 * time.Hour
	DefaultRateLimitMax    = 30
	DefaultRateLimitWindow = 60 * time.Second
)

// PlanCache stores plans keyed by input fingerprint for a fixed TTL.
type PlanCache interface {
	Get(ctx context.Context, key string) (*plan.Plan, bool, error)
	Set(ctx context.Context, key string, p *plan.Plan) error
}

// RateLimiter admits at most a fixed number of calls per key per window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// ResetInSeconds rounds ResetIn up to whole seconds.
func (d Decision) ResetInSeconds() int {
	if d.ResetIn <= 0 {
		return 0
	}
	return int(math.Ceil(d.ResetIn.Seconds()))
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.Max <= 0 {
		c.Max = DefaultRateLimitMax
	}
	if c.Window <= 0 {
		c.Window = DefaultRateLimitWindow
	}
	return c
}
