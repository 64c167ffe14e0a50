package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// WarnPrefix is the Redis key prefix for per-user warning lists.
const WarnPrefix = "warn:"

// RedisStore keeps warning lists in Redis so warnings survive gateway
// restarts and are shared across server instances. Each user maps to a list
// of JSON-encoded warnings:
//
//	Key:   warn:<user_id>
//	Value: RPUSH'd JSON warning entries, oldest first
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a warning store using the provided Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Append pushes the warning onto the user's list. RPUSH returns the new list
// length atomically, so concurrent appends for the same user each observe a
// consistent count without extra locking.
func (s *RedisStore) Append(ctx context.Context, userID string, w Warning) (int, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return 0, fmt.Errorf("ledger: marshal warning: %w", err)
	}

	count, err := s.client.RPush(ctx, WarnPrefix+userID, data).Result()
	if err != nil {
		return 0, fmt.Errorf("ledger: rpush: %w", err)
	}
	return int(count), nil
}

// List returns the user's warnings in insertion order.
func (s *RedisStore) List(ctx context.Context, userID string) ([]Warning, error) {
	entries, err := s.client.LRange(ctx, WarnPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger: lrange: %w", err)
	}

	warns := make([]Warning, 0, len(entries))
	for _, e := range entries {
		var w Warning
		if err := json.Unmarshal([]byte(e), &w); err != nil {
			return nil, fmt.Errorf("ledger: unmarshal warning: %w", err)
		}
		warns = append(warns, w)
	}
	return warns, nil
}

// Clear deletes the user's warning list and returns the removed count.
func (s *RedisStore) Clear(ctx context.Context, userID string) (int, error) {
	key := WarnPrefix + userID

	count, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ledger: llen: %w", err)
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("ledger: del: %w", err)
	}
	return int(count), nil
}
