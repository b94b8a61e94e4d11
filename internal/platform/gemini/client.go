package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/upskill-backend/internal/platform/envutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// Client mirrors the text-generation contract of the OpenAI client so either
// provider can back the planner.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	GenerateJSONText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey          string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int32
	Temperature     float32
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:          envutil.String("GEMINI_API_KEY", ""),
		Model:           envutil.String("GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout:         envutil.Seconds("GEMINI_TIMEOUT_SECONDS", 60*time.Second),
		MaxOutputTokens: int32(envutil.Int("GEMINI_MAX_OUTPUT_TOKENS", 4096)),
		Temperature:     0.4,
	}
}

type client struct {
	log   *logger.Logger
	cfg   Config
	genai *genai.Client
}

func NewFromEnv(ctx context.Context, log *logger.Logger) (Client, error) {
	return New(ctx, log, ConfigFromEnv())
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &client{
		log:   log.With("service", "GeminiClient"),
		cfg:   cfg,
		genai: gc,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return c.generate(ctx, system, user, "")
}

func (c *client) GenerateJSONText(ctx context.Context, system string, user string) (string, error) {
	return c.generate(ctx, system, user, "application/json")
}

func (c *client) generate(ctx context.Context, system, user, mimeType string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(c.cfg.Temperature),
		MaxOutputTokens:   c.cfg.MaxOutputTokens,
		ResponseMIMEType:  mimeType,
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text returned")
	}
	if resp.UsageMetadata != nil {
		c.log.Debug("Gemini response received",
			"model", c.cfg.Model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return text, nil
}
