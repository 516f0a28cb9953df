package llm

import (
	"context"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const probeTimeout = 10 * time.Second

// Probe runs the startup handshake: it walks the candidate list in
// order, issues a minimal one-token generation against each, and keeps
// the first model that answers. When every candidate fails the client
// stays inactive and the service runs degraded.
func (c *Client) Probe(ctx context.Context, candidates []string) {
	if !c.configured {
		slog.Warn("model handshake skipped: no API key configured")
		return
	}

	for _, model := range candidates {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, err := c.api.CreateChatCompletion(pctx, openai.ChatCompletionRequest{
			Model:     model,
			Messages:  []openai.ChatCompletionMessage{{Role: RoleUser, Content: "ping"}},
			MaxTokens: 1,
		})
		cancel()

		if err != nil {
			slog.Warn("model handshake failed", "model", model, "kind", classify(err).Kind)
			continue
		}

		c.mu.Lock()
		c.model = model
		c.mu.Unlock()
		slog.Info("model handshake succeeded", "model", model)
		return
	}

	slog.Error("no candidate model answered the handshake, running degraded")
}
