package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/upskill-backend/internal/platform/gemini"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
	"github.com/yungbote/upskill-backend/internal/platform/openai"
	"github.com/yungbote/upskill-backend/internal/platform/redisx"
	"github.com/yungbote/upskill-backend/internal/platform/sendgrid"
)

// AIClient is what both providers offer; the planner uses JSON mode and
// the suggestion endpoints use plain text.
type AIClient interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	GenerateJSONText(ctx context.Context, system string, user string) (string, error)
}

type Clients struct {
	AI       AIClient
	SendGrid sendgrid.Client
	Redis    *goredis.Client
}

// wireClients builds the optional outbound clients. A missing key leaves
// the client nil; a configured Redis that cannot be reached is fatal.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	switch cfg.AIProvider {
	case AIProviderOpenAI:
		c, err := openai.NewFromEnv(log)
		if err != nil {
			log.Warn("OpenAI client disabled, plans will use the fallback generator", "error", err)
		} else {
			out.AI = c
		}
	case AIProviderGemini:
		c, err := gemini.NewFromEnv(ctx, log)
		if err != nil {
			log.Warn("Gemini client disabled, plans will use the fallback generator", "error", err)
		} else {
			out.AI = c
		}
	default:
		log.Info("AI provider disabled, plans will use the fallback generator")
	}

	sg, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid client disabled, plan emails will not be sent", "error", err)
	} else {
		out.SendGrid = sg
	}

	if cfg.RedisAddr != "" {
		rcfg := redisx.ConfigFromEnv()
		rcfg.Addr = cfg.RedisAddr
		rdb, err := redisx.Connect(ctx, rcfg)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
