package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/upskill-backend/internal/platform/envutil"
	"github.com/yungbote/upskill-backend/internal/platform/httpx"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// Client is the OpenAI API client used by the rest of the backend.
type Client interface {
	// Plain text (no format constraint).
	GenerateText(ctx context.Context, system string, user string) (string, error)

	// JSON-object mode: the model must answer with a single JSON object. The raw
	// text is returned; parsing and validation are the caller's job.
	GenerateJSONText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxRetries      int
	MaxOutputTokens int
	Temperature     *float64
}

func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:          envutil.String("OPENAI_API_KEY", ""),
		BaseURL:         envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:           envutil.String("OPENAI_MODEL", "gpt-4o"),
		Timeout:         envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
		MaxRetries:      envutil.Int("OPENAI_MAX_RETRIES", 1),
		MaxOutputTokens: envutil.Int("OPENAI_MAX_OUTPUT_TOKENS", 4096),
	}
	raw := strings.ToLower(envutil.String("OPENAI_TEMPERATURE", "0.4"))
	switch raw {
	case "off", "none", "nil", "false":
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Temperature = &f
		}
	}
	return cfg
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		noTemp:     map[string]bool{},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client

	// Models that rejected the temperature parameter once; omitted afterwards.
	noTempMu sync.RWMutex
	noTemp   map[string]bool
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Text            *textOptions   `json:"text,omitempty"`
	Temperature     *float64       `json:"temperature,omitempty"`
	MaxOutputTokens int            `json:"max_output_tokens,omitempty"`
}

type textOptions struct {
	Format map[string]any `json:"format,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return c.respond(ctx, system, user, nil)
}

func (c *client) GenerateJSONText(ctx context.Context, system string, user string) (string, error) {
	return c.respond(ctx, system, user, &textOptions{Format: map[string]any{"type": "json_object"}})
}

func (c *client) respond(ctx context.Context, system, user string, text *textOptions) (string, error) {
	req := &responsesRequest{
		Model: c.cfg.Model,
		Input: []inputMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Text:            text,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}
	if c.cfg.Temperature != nil && !c.modelIsNoTemp(req.Model) {
		req.Temperature = c.cfg.Temperature
	}

	var resp responsesResponse
	err := c.do(ctx, "/v1/responses", req, &resp)
	if err != nil && req.Temperature != nil && isUnsupportedTemperature(err) {
		c.noteNoTemp(req.Model)
		req.Temperature = nil
		err = c.do(ctx, "/v1/responses", req, &resp)
	}
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			if part.Refusal != "" {
				return "", fmt.Errorf("model refused: %s", part.Refusal)
			}
			if part.Type == "output_text" {
				out.WriteString(part.Text)
			}
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	c.log.Debug("OpenAI response received",
		"model", req.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return out.String(), nil
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Service: "openai", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w", uErr)
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			return sErr
		}
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func (c *client) modelIsNoTemp(model string) bool {
	c.noTempMu.RLock()
	defer c.noTempMu.RUnlock()
	return c.noTemp[strings.ToLower(model)]
}

func (c *client) noteNoTemp(model string) {
	c.noTempMu.Lock()
	c.noTemp[strings.ToLower(model)] = true
	c.noTempMu.Unlock()
}

func isUnsupportedTemperature(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, marker := range []string{"unsupported parameter", "unknown parameter", "not supported", "does not support", "only the default"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
