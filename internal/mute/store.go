// Package mute tracks active mutes backed by Redis. Mute records are stored
// as simple key-value pairs with TTL-based expiry:
//
//	Key:   mute:<user_id>
//	Value: <reason>
//	TTL:   mute duration
//
// The gateway drops chat messages from muted users until the key expires,
// so no unmute sweep is needed for the common case.
package mute

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// MutePrefix is the Redis key prefix for mute records.
const MutePrefix = "mute:"

// Store manages mute records in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new mute store using the provided Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// IsMuted checks if a user is currently muted.
// Returns (isMuted, remaining, reason, error). If the user is not muted,
// isMuted is false and the other return values are zero/empty. Redis errors
// are returned so callers can decide how to handle them (the recommended
// policy is fail-open).
func (s *Store) IsMuted(ctx context.Context, userID string) (bool, time.Duration, string, error) {
	key := MutePrefix + userID

	reason, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, 0, "", nil
	}
	if err != nil {
		return false, 0, "", err
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		// The mute exists but the TTL read failed. Report muted with 0
		// remaining rather than swallowing the mute.
		return true, 0, reason, nil
	}

	remaining := time.Duration(0)
	if ttl > 0 {
		remaining = ttl
	}
	return true, remaining, reason, nil
}

// Mute sets a mute on a user with the given duration and reason.
// The mute automatically expires after the specified duration.
func (s *Store) Mute(ctx context.Context, userID string, duration time.Duration, reason string) error {
	return s.client.Set(ctx, MutePrefix+userID, reason, duration).Err()
}

// Unmute lifts a user's mute immediately.
func (s *Store) Unmute(ctx context.Context, userID string) error {
	return s.client.Del(ctx, MutePrefix+userID).Err()
}
