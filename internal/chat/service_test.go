package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-assistant/nimbus/internal/llm"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

type fakeModel struct {
	active bool
	reply  string
	err    error
	calls  [][]llm.Message
}

func (f *fakeModel) Chat(_ context.Context, msgs []llm.Message) (string, error) {
	f.calls = append(f.calls, msgs)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeModel) Active() bool { return f.active }

type fakeWeather struct {
	snap *weather.Snapshot
	err  error
}

func (f *fakeWeather) Configured() bool    { return f.snap != nil || f.err != nil }
func (f *fakeWeather) DefaultCity() string { return "Lisbon" }
func (f *fakeWeather) Current(context.Context, string) (*weather.Snapshot, error) {
	return f.snap, f.err
}

func setupService(t *testing.T, model *fakeModel, ws WeatherSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(model, NewHistoryStore(client, 20, time.Hour), ws)
}

func lastOutgoing(t *testing.T, model *fakeModel) string {
	t.Helper()
	require.NotEmpty(t, model.calls)
	msgs := model.calls[len(model.calls)-1]
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1].Content
}

func TestRespond_NoWeatherAnnotationWithoutKeyword(t *testing.T) {
	model := &fakeModel{active: true, reply: "sure"}
	ws := &fakeWeather{snap: &weather.Snapshot{City: "Lisbon", Temp: 21}}
	svc := setupService(t, model, ws)

	_, err := svc.Respond(context.Background(), "s1", "tell me a joke", "")
	require.NoError(t, err)

	assert.NotContains(t, lastOutgoing(t, model), "[Current weather")
}

func TestRespond_WeatherAnnotationWithKeyword(t *testing.T) {
	model := &fakeModel{active: true, reply: "it's mild"}
	ws := &fakeWeather{snap: &weather.Snapshot{
		City: "Lisbon", Temp: 21, Feels: 20, Description: "clear sky", Humidity: 44, Wind: 14,
	}}
	svc := setupService(t, model, ws)

	_, err := svc.Respond(context.Background(), "s1", "what's the weather like?", "")
	require.NoError(t, err)

	out := lastOutgoing(t, model)
	assert.Contains(t, out, "[Current weather in Lisbon: 21°C, feels like 20°C, clear sky, humidity 44%, wind 14 km/h]")
}

func TestRespond_WeatherFetchFailureSkipsAnnotation(t *testing.T) {
	model := &fakeModel{active: true, reply: "no idea"}
	ws := &fakeWeather{err: errors.New("provider down")}
	svc := setupService(t, model, ws)

	_, err := svc.Respond(context.Background(), "s1", "is it raining?", "")
	require.NoError(t, err)

	assert.NotContains(t, lastOutgoing(t, model), "[Current weather")
}

func TestRespond_ClientTimeAnnotation(t *testing.T) {
	model := &fakeModel{active: true, reply: "ok"}
	svc := setupService(t, model, &fakeWeather{})

	_, err := svc.Respond(context.Background(), "s1", "hello", "2026-08-30 14:05")
	require.NoError(t, err)

	assert.Contains(t, lastOutgoing(t, model), "[Client local time: 2026-08-30 14:05]")
}

func TestRespond_PersonaLeadsTheConversation(t *testing.T) {
	model := &fakeModel{active: true, reply: "hey"}
	svc := setupService(t, model, &fakeWeather{})

	_, err := svc.Respond(context.Background(), "s1", "hello", "")
	require.NoError(t, err)

	msgs := model.calls[0]
	require.GreaterOrEqual(t, len(msgs), 3)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
	assert.Equal(t, personaInstruction, msgs[0].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, personaAck, msgs[1].Content)
}

func TestRespond_RecordsBothTurns(t *testing.T) {
	model := &fakeModel{active: true, reply: "hi!"}
	svc := setupService(t, model, &fakeWeather{})
	ctx := context.Background()

	_, err := svc.Respond(ctx, "s1", "hello there", "")
	require.NoError(t, err)

	turns, err := svc.history.Recent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "hello there", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, "hi!", turns[1].Content)
}

func TestRespond_HistoryStoresRawMessageNotAnnotatedPrompt(t *testing.T) {
	model := &fakeModel{active: true, reply: "21 degrees"}
	ws := &fakeWeather{snap: &weather.Snapshot{City: "Lisbon", Temp: 21}}
	svc := setupService(t, model, ws)
	ctx := context.Background()

	_, err := svc.Respond(ctx, "s1", "how's the weather", "")
	require.NoError(t, err)

	turns, err := svc.history.Recent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "how's the weather", turns[0].Content)
	assert.NotContains(t, turns[0].Content, "[Current weather")
}

func TestRespond_HistoryNeverExceedsCap(t *testing.T) {
	model := &fakeModel{active: true, reply: "ok"}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	svc := NewService(model, NewHistoryStore(client, 6, time.Hour), &fakeWeather{})
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.Respond(ctx, "s1", fmt.Sprintf("message %d", i), "")
		require.NoError(t, err)
	}

	turns, err := svc.history.Recent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, turns, 6)
	// Newest turns, oldest first: user/assistant pairs 12 through 14.
	assert.Equal(t, "message 12", turns[0].Content)
	assert.Equal(t, "assistant", turns[5].Role)
	assert.True(t, strings.HasPrefix(turns[4].Content, "message 14"))
}

func TestRespond_InactiveModel(t *testing.T) {
	model := &fakeModel{active: false}
	svc := setupService(t, model, &fakeWeather{})

	_, err := svc.Respond(context.Background(), "s1", "hello", "")
	require.Error(t, err)
	assert.Equal(t, llm.KindUnavailable, llm.KindOf(err))
	assert.Empty(t, model.calls)
}

func TestRespond_ModelErrorLeavesHistoryUntouched(t *testing.T) {
	model := &fakeModel{active: true, err: llm.ErrNoActiveModel}
	svc := setupService(t, model, &fakeWeather{})
	ctx := context.Background()

	_, err := svc.Respond(ctx, "s1", "hello", "")
	require.Error(t, err)

	turns, err := svc.history.Recent(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestReset_ClearsSession(t *testing.T) {
	model := &fakeModel{active: true, reply: "ok"}
	svc := setupService(t, model, &fakeWeather{})
	ctx := context.Background()

	_, err := svc.Respond(ctx, "s1", "hello", "")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "s1"))

	turns, err := svc.history.Recent(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMentionsWeather(t *testing.T) {
	assert.True(t, mentionsWeather("What's the WEATHER today?"))
	assert.True(t, mentionsWeather("is it raining"))
	assert.False(t, mentionsWeather("remind me to stretch"))
	assert.False(t, mentionsWeather("tell me a story"))
}
