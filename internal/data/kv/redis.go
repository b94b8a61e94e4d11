package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

const (
	planKeyPrefix  = "upskill:plan:"
	limitKeyPrefix = "upskill:ratelimit:"
)

type RedisPlanCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisPlanCache(rdb *goredis.Client, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &RedisPlanCache{rdb: rdb, ttl: ttl}
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (*plan.Plan, bool, error) {
	raw, err := c.rdb.Get(ctx, planKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get plan: %w", err)
	}
	var p plan.Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached plan: %w", err)
	}
	return &p, true, nil
}

func (c *RedisPlanCache) Set(ctx context.Context, key string, p *plan.Plan) error {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, planKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set plan: %w", err)
	}
	return nil
}

// Returns {allowed, count, pttl}. A rejected call does not increment, so the
// stored count never exceeds the limit.
var fixedWindowScript = goredis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[2])
if count >= limit then
  return {0, count, redis.call('PTTL', KEYS[1])}
end
count = redis.call('INCR', KEYS[1])
if count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {1, count, redis.call('PTTL', KEYS[1])}
`)

type RedisRateLimiter struct {
	rdb *goredis.Client
	cfg RateLimitConfig
}

func NewRedisRateLimiter(rdb *goredis.Client, cfg RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, cfg: cfg.withDefaults()}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb,
		[]string{limitKeyPrefix + key},
		l.cfg.Window.Milliseconds(),
		l.cfg.Max,
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	resetIn := time.Duration(res[2]) * time.Millisecond
	if resetIn < 0 {
		resetIn = l.cfg.Window
	}
	remaining := l.cfg.Max - int(res[1])
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: res[0] == 1, Remaining: remaining, ResetIn: resetIn}, nil
}
