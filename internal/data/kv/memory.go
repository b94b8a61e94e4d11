package kv

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

type cacheEntry struct {
	plan      *plan.Plan
	createdAt time.Time
}

// MemoryPlanCache is a process-local PlanCache. Expired entries are evicted
// on the lookup that finds them.
type MemoryPlanCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewMemoryPlanCache(ttl time.Duration, now func() time.Time) *MemoryPlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryPlanCache{ttl: ttl, now: now, entries: map[string]cacheEntry{}}
}

func (c *MemoryPlanCache) Get(_ context.Context, key string) (*plan.Plan, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.plan, true, nil
}

func (c *MemoryPlanCache) Set(_ context.Context, key string, p *plan.Plan) error {
	if p == nil {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{plan: p, createdAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *MemoryPlanCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryPlanCache) Reset() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimiter is a fixed-window limiter. A window opens on the first
// call after the previous one expired; there is no background sweep.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	now     func() time.Time
	windows map[string]*window
}

func NewMemoryRateLimiter(cfg RateLimitConfig, now func() time.Time) *MemoryRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryRateLimiter{cfg: cfg.withDefaults(), now: now, windows: map[string]*window{}}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.cfg.Window)}
		return Decision{Allowed: true, Remaining: l.cfg.Max - 1, ResetIn: l.cfg.Window}, nil
	}
	if w.count >= l.cfg.Max {
		return Decision{Allowed: false, Remaining: 0, ResetIn: w.resetAt.Sub(now)}, nil
	}
	w.count++
	return Decision{Allowed: true, Remaining: l.cfg.Max - w.count, ResetIn: w.resetAt.Sub(now)}, nil
}

func (l *MemoryRateLimiter) Reset() {
	l.mu.Lock()
	l.windows = map[string]*window{}
	l.mu.Unlock()
}
