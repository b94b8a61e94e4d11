package kv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryPlanCacheExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	cache := NewMemoryPlanCache(time.Hour, clock.Now)

	p := &plan.Plan{Summary: "cached plan summary"}
	require.NoError(t, cache.Set(ctx, "k", p))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cached plan summary", got.Summary)

	clock.Advance(59 * time.Minute)
	_, ok, _ = cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 1, cache.Len())

	clock.Advance(time.Minute)
	_, ok, _ = cache.Get(ctx, "k")
	assert.True(t, ok, "an entry exactly ttl old is still served")

	clock.Advance(time.Nanosecond)
	_, ok, _ = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len(), "expired entry is evicted by the lookup")
}

func TestMemoryPlanCacheMissAndReset(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPlanCache(0, nil)

	_, ok, err := cache.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "a", &plan.Plan{}))
	require.NoError(t, cache.Set(ctx, "nil", nil))
	assert.Equal(t, 1, cache.Len())
	cache.Reset()
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryRateLimiterWindow(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(RateLimitConfig{Max: 30, Window: time.Minute}, clock.Now)

	for i := 0; i < 30; i++ {
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 30-(i+1), d.Remaining)
	}

	clock.Advance(20 * time.Second)
	d, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 40, d.ResetInSeconds())

	other, _ := limiter.Allow(ctx, "5.6.7.8")
	assert.True(t, other.Allowed, "keys are independent")

	clock.Advance(40 * time.Second)
	d, _ = limiter.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed, "window resets once expired")
	assert.Equal(t, 29, d.Remaining)
}

func TestMemoryRateLimiterConcurrentCountsExactly(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryRateLimiter(RateLimitConfig{Max: 50, Window: time.Hour}, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := limiter.Allow(ctx, "shared")
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestResetInSecondsRoundsUp(t *testing.T) {
	assert.Equal(t, 1, Decision{ResetIn: 10 * time.Millisecond}.ResetInSeconds())
	assert.Equal(t, 2, Decision{ResetIn: 1001 * time.Millisecond}.ResetInSeconds())
	assert.Equal(t, 0, Decision{}.ResetInSeconds())
}
