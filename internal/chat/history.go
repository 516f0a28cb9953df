package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps per-session conversation history in Redis lists,
// capped at maxTurns and expiring after ttl of inactivity.
type HistoryStore struct {
	client   redis.Cmdable
	maxTurns int
	ttl      time.Duration
}

func NewHistoryStore(client redis.Cmdable, maxTurns int, ttl time.Duration) *HistoryStore {
	return &HistoryStore{client: client, maxTurns: maxTurns, ttl: ttl}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("chat:history:%s", sessionID)
}

// Recent returns up to maxTurns of the newest history, oldest first.
func (s *HistoryStore) Recent(ctx context.Context, sessionID string) ([]Turn, error) {
	key := historyKey(sessionID)

	// LRANGE key -maxTurns -1 returns the last maxTurns elements
	vals, err := s.client.LRange(ctx, key, int64(-s.maxTurns), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	turns := make([]Turn, 0, len(vals))
	for _, v := range vals {
		var turn Turn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			continue // skip malformed entries
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append adds a turn and trims the list to the configured cap.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	key := historyKey(sessionID)

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshaling turn: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// Clear deletes the history for the given session.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, historyKey(sessionID)).Err()
}
