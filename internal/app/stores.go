package app

import (
	"github.com/yungbote/upskill-backend/internal/data/kv"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type Stores struct {
	PlanCache   kv.PlanCache
	RateLimiter kv.RateLimiter
}

// wireStores picks Redis when a client is available so every replica shares
// one cache and one limiter; otherwise state is per process.
func wireStores(log *logger.Logger, cfg Config, clients Clients) Stores {
	if clients.Redis != nil {
		log.Info("Wiring stores...", "backend", "redis")
		return Stores{
			PlanCache:   kv.NewRedisPlanCache(clients.Redis, cfg.PlanTTL),
			RateLimiter: kv.NewRedisRateLimiter(clients.Redis, cfg.RateLimit),
		}
	}
	log.Info("Wiring stores...", "backend", "memory")
	return Stores{
		PlanCache:   kv.NewMemoryPlanCache(cfg.PlanTTL, nil),
		RateLimiter: kv.NewMemoryRateLimiter(cfg.RateLimit, nil),
	}
}
