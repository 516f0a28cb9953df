package llm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nimbus-assistant/nimbus/internal/config"
	"github.com/nimbus-assistant/nimbus/internal/metrics"
)

const (
	maxAttempts = 2
	retryDelay  = time.Second
)

// Message is one turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Client wraps an OpenAI-compatible chat completion endpoint. It is
// inactive until Probe selects a servable model; calls on an inactive
// client fail with ErrNoActiveModel.
type Client struct {
	api        *openai.Client
	configured bool

	mu    sync.RWMutex
	model string
}

func NewClient(cfg config.LLMConfig) *Client {
	if cfg.APIKey == "" {
		return &Client{}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:        openai.NewClientWithConfig(oc),
		configured: true,
	}
}

// Active reports whether a model survived the startup handshake.
func (c *Client) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != ""
}

// Model returns the active model name, or "" when degraded.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Chat sends a multi-turn conversation and returns the reply text.
func (c *Client) Chat(ctx context.Context, msgs []Message) (string, error) {
	return c.complete(ctx, msgs, 0)
}

// Generate sends a single-shot prompt, for structured extraction calls
// that must not see conversation history.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, []Message{{Role: RoleUser, Content: prompt}}, 0)
}

func (c *Client) complete(ctx context.Context, msgs []Message, maxTokens int) (string, error) {
	model := c.Model()
	if model == "" {
		metrics.LLMRequestsTotal.WithLabelValues(string(KindUnavailable)).Inc()
		return "", ErrNoActiveModel
	}

	req := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  toOpenAI(msgs),
		MaxTokens: maxTokens,
	}

	var lastErr *Error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &Error{Kind: KindUnavailable, err: ctx.Err()}
			case <-time.After(retryDelay):
			}
		}

		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			if len(resp.Choices) == 0 {
				metrics.LLMRequestsTotal.WithLabelValues(string(KindUnknown)).Inc()
				return "", &Error{Kind: KindUnknown, err: errNoChoices}
			}
			metrics.LLMRequestsTotal.WithLabelValues("ok").Inc()
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = classify(err)
		if lastErr.Kind != KindUnavailable {
			break
		}
		slog.Warn("model call failed, retrying", "model", model, "attempt", attempt+1, "error", err)
	}

	metrics.LLMRequestsTotal.WithLabelValues(string(lastErr.Kind)).Inc()
	return "", lastErr
}

func toOpenAI(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
