package reminder

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/metrics"
)

// Generator is the slice of the LLM client the extractor needs: a
// single-shot generation with no conversation history attached.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor maps natural language to a reminder Intent by asking the
// model for a fixed JSON shape and defensively parsing whatever comes
// back. The model's output is untrusted text: any shape violation
// degrades to the all-default record, never to an error.
type Extractor struct {
	gen Generator
	now func() time.Time
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen, now: time.Now}
}

// Extract returns the intent for the message. Only transport-level
// failure (no model, request error) is returned as an error; unparsable
// model output yields the default record and a nil error.
func (e *Extractor) Extract(ctx context.Context, message string) (Intent, error) {
	raw, err := e.gen.Generate(ctx, BuildPrompt(e.now(), message))
	if err != nil {
		metrics.ReminderParsesTotal.WithLabelValues("error").Inc()
		return Intent{}, err
	}
	return parseIntent(raw), nil
}

// parseIntent decodes the first brace-delimited JSON object in the
// model's raw output. The defaulting is deliberately two-layered: the
// whole parse falls back to the zero record, and each decoded field is
// coalesced independently, since the model may omit keys or pad the
// JSON with prose.
func parseIntent(raw string) Intent {
	obj := extractJSONObject(raw)
	if obj == "" {
		metrics.ReminderParsesTotal.WithLabelValues("default").Inc()
		return Intent{}
	}

	// Numbers decode as float64 so "30.0" from the model still lands.
	var decoded struct {
		IsReminder      bool    `json:"isReminder"`
		Task            string  `json:"task"`
		MinutesFromNow  float64 `json:"minutesFromNow"`
		Recurring       bool    `json:"recurring"`
		IntervalMinutes float64 `json:"intervalMinutes"`
	}
	if err := json.Unmarshal([]byte(obj), &decoded); err != nil {
		metrics.ReminderParsesTotal.WithLabelValues("default").Inc()
		return Intent{}
	}

	intent := Intent{
		IsReminder:      decoded.IsReminder,
		Task:            strings.TrimSpace(decoded.Task),
		MinutesFromNow:  coalesceMinutes(decoded.MinutesFromNow),
		Recurring:       decoded.Recurring,
		IntervalMinutes: coalesceMinutes(decoded.IntervalMinutes),
	}

	metrics.ReminderParsesTotal.WithLabelValues("ok").Inc()
	return intent
}

// extractJSONObject returns the first '{' .. last '}' span of the text,
// tolerating code fences and surrounding prose. Empty when no such span
// exists.
func extractJSONObject(text string) string {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return ""
	}

	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "```json"))
		candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "```"))
		candidate = strings.TrimSpace(strings.TrimSuffix(candidate, "```"))
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(candidate[start : end+1])
}

func coalesceMinutes(v float64) int {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
