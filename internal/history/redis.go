package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hanghive/hang-bot/internal/prompt"
)

// HistoryPrefix is the Redis key prefix for per-session turn lists.
const HistoryPrefix = "history:"

// DefaultTTL is how long an idle session's history survives. Every append
// refreshes it, so only abandoned sessions expire.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps conversation history in Redis so the botworker sees the
// same context regardless of which gateway instance owns the connection.
//
//	Key:   history:<session_id>
//	Value: RPUSH'd JSON turns, oldest first, trimmed to MaxStoredTurns
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a history store using the provided Redis client.
// A non-positive ttl falls back to DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Append pushes the turn, trims the list to the storage bound, and refreshes
// the TTL. The three commands run in a pipeline to keep it one round trip.
func (s *RedisStore) Append(ctx context.Context, sessionID string, turn prompt.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("history: marshal turn: %w", err)
	}

	key := HistoryPrefix + sessionID
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-MaxStoredTurns), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// Turns returns the session's stored turns in chronological order.
func (s *RedisStore) Turns(ctx context.Context, sessionID string) ([]prompt.Turn, error) {
	entries, err := s.client.LRange(ctx, HistoryPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: lrange: %w", err)
	}

	turns := make([]prompt.Turn, 0, len(entries))
	for _, e := range entries {
		var t prompt.Turn
		if err := json.Unmarshal([]byte(e), &t); err != nil {
			return nil, fmt.Errorf("history: unmarshal turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Clear deletes the session's history.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, HistoryPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("history: del: %w", err)
	}
	return nil
}
