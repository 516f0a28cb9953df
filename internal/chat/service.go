package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/llm"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

// The transport carries no dedicated system role, so the persona rides
// as the opening user/assistant exchange of every conversation.
const (
	personaInstruction = "You are Nimbus, a friendly personal assistant. " +
		"Keep replies short, warm and conversational. When a message ends with a " +
		"bracketed weather report, use it to answer weather questions; when it " +
		"ends with a bracketed client time, treat that as the user's local time."
	personaAck = "Got it, I'm Nimbus. How can I help?"
)

// FallbackLine is the in-character reply returned alongside a
// service-unavailable error so the front-end always has something to say.
const FallbackLine = "I'm resting my circuits right now, try me again in a moment."

var weatherKeywords = []string{
	"weather", "temperature", "forecast", "rain", "raining", "snow",
	"sunny", "cloudy", "windy", "humid", "hot outside", "cold outside",
	"degrees",
}

// Model is the slice of the LLM client the chat service needs.
type Model interface {
	Chat(ctx context.Context, msgs []llm.Message) (string, error)
	Active() bool
}

// WeatherSource provides cached snapshots for prompt enrichment.
type WeatherSource interface {
	Configured() bool
	DefaultCity() string
	Current(ctx context.Context, city string) (*weather.Snapshot, error)
}

// Service turns an inbound chat message into a model reply, maintaining
// the bounded per-session history.
type Service struct {
	model   Model
	history *HistoryStore
	weather WeatherSource
}

func NewService(model Model, history *HistoryStore, weather WeatherSource) *Service {
	return &Service{model: model, history: history, weather: weather}
}

// Respond forwards the message to the model with persona, recent
// history and optional weather/time annotations, and records both turns.
func (s *Service) Respond(ctx context.Context, sessionID, message, clientTime string) (string, error) {
	if !s.model.Active() {
		return "", llm.ErrNoActiveModel
	}

	recent, err := s.history.Recent(ctx, sessionID)
	if err != nil {
		slog.Warn("loading history failed, continuing without it", "session", sessionID, "error", err)
		recent = nil
	}

	msgs := make([]llm.Message, 0, len(recent)+3)
	msgs = append(msgs,
		llm.Message{Role: llm.RoleUser, Content: personaInstruction},
		llm.Message{Role: llm.RoleAssistant, Content: personaAck},
	)
	for _, turn := range recent {
		role := llm.RoleUser
		if turn.Role == "assistant" {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: turn.Content})
	}

	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: s.buildOutgoing(ctx, message, clientTime)})

	reply, err := s.model.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}

	now := time.Now()
	// History keeps the raw message, not the annotated prompt, so stale
	// weather brackets never leak into later conversations.
	s.record(ctx, sessionID, Turn{Role: "user", Content: message, Timestamp: now})
	s.record(ctx, sessionID, Turn{Role: "assistant", Content: reply, Timestamp: now})

	return reply, nil
}

// Reset clears the session's conversation history.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.history.Clear(ctx, sessionID)
}

func (s *Service) buildOutgoing(ctx context.Context, message, clientTime string) string {
	out := message

	if mentionsWeather(message) && s.weather != nil && s.weather.Configured() {
		snap, err := s.weather.Current(ctx, s.weather.DefaultCity())
		if err != nil {
			slog.Warn("weather enrichment skipped", "error", err)
		} else {
			out += "\n" + weatherAnnotation(snap)
		}
	}

	if clientTime != "" {
		out += fmt.Sprintf("\n[Client local time: %s]", clientTime)
	}

	return out
}

func mentionsWeather(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func weatherAnnotation(snap *weather.Snapshot) string {
	return fmt.Sprintf("[Current weather in %s: %d°C, feels like %d°C, %s, humidity %d%%, wind %d km/h]",
		snap.City, snap.Temp, snap.Feels, snap.Description, snap.Humidity, snap.Wind)
}

func (s *Service) record(ctx context.Context, sessionID string, turn Turn) {
	if err := s.history.Append(ctx, sessionID, turn); err != nil {
		slog.Warn("recording turn failed", "session", sessionID, "error", err)
	}
}
