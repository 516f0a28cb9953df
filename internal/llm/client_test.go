package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-assistant/nimbus/internal/config"
)

const completionBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"created": 1,
	"model": "%s",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "%s"}, "finish_reason": "stop"}]
}`

func apiErrorBody(msg string) string {
	return fmt.Sprintf(`{"error": {"message": %q, "type": "invalid_request_error"}}`, msg)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.LLMConfig{APIKey: "test-key", BaseURL: srv.URL})
	c.model = "test-model"
	return c
}

func completionHandler(status int, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(apiErrorBody("upstream says no")))
			return
		}
		fmt.Fprintf(w, completionBody, "test-model", content)
	}
}

func TestChat_ReturnsReplyText(t *testing.T) {
	c := newTestClient(t, completionHandler(http.StatusOK, "hello back"))

	reply, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)
}

func TestChat_RateLimitClassified(t *testing.T) {
	c := newTestClient(t, completionHandler(http.StatusTooManyRequests, ""))

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Equal(t, KindRateLimited, KindOf(err))
}

func TestChat_AuthFailureClassified(t *testing.T) {
	c := newTestClient(t, completionHandler(http.StatusUnauthorized, ""))

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestChat_ServerErrorClassifiedUnavailable(t *testing.T) {
	c := newTestClient(t, completionHandler(http.StatusInternalServerError, ""))

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestChat_RetriesOnceOnUnavailable(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(apiErrorBody("warming up")))
			return
		}
		fmt.Fprintf(w, completionBody, "test-model", "second time lucky")
	})

	reply, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", reply)
	assert.Equal(t, 2, attempts)
}

func TestChat_NoRetryOnRateLimit(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(apiErrorBody("slow down")))
	})

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestChat_InactiveClient(t *testing.T) {
	c := NewClient(config.LLMConfig{})

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.False(t, c.Active())
	assert.Empty(t, c.Model())
}

func TestGenerate_SingleShot(t *testing.T) {
	var gotReq struct {
		Messages []Message `json:"messages"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprintf(w, completionBody, "test-model", `{\"isReminder\": false}`)
	})

	_, err := c.Generate(context.Background(), "extract this")
	require.NoError(t, err)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, RoleUser, gotReq.Messages[0].Role)
	assert.Equal(t, "extract this", gotReq.Messages[0].Content)
}
