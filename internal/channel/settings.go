package channel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultCommunityType is used when a channel has no explicit setting.
const DefaultCommunityType = "general"

// CommunityTypes lists the valid community-type settings.
var CommunityTypes = []string{"study", "coding", "professional", "casual", "general"}

// NormalizeCommunityType lowercases and validates a community type, falling
// back to the default for unknown values.
func NormalizeCommunityType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	for _, valid := range CommunityTypes {
		if ct == valid {
			return ct
		}
	}
	return DefaultCommunityType
}

// SettingsStore persists per-channel community types.
type SettingsStore interface {
	// CommunityType returns the channel's community type, or the default
	// when unset.
	CommunityType(ctx context.Context, channelID string) (string, error)
	// SetCommunityType stores a normalized community type for a channel.
	SetCommunityType(ctx context.Context, channelID, communityType string) error
}

// MemorySettings is a process-lifetime settings store.
type MemorySettings struct {
	mu    sync.RWMutex
	types map[string]string
}

// NewMemorySettings creates an empty in-memory settings store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{types: make(map[string]string)}
}

func (s *MemorySettings) CommunityType(_ context.Context, channelID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ct, ok := s.types[channelID]; ok {
		return ct, nil
	}
	return DefaultCommunityType, nil
}

func (s *MemorySettings) SetCommunityType(_ context.Context, channelID, communityType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.types[channelID] = NormalizeCommunityType(communityType)
	return nil
}

// CommunityPrefix is the Redis key prefix for channel community types.
const CommunityPrefix = "community:"

// RedisSettings keeps channel settings in Redis so they survive restarts and
// are visible to every server instance.
//
//	Key:   community:<channel_id>
//	Value: community type string, no TTL
type RedisSettings struct {
	client *redis.Client
}

// NewRedisSettings creates a settings store using the provided Redis client.
func NewRedisSettings(client *redis.Client) *RedisSettings {
	return &RedisSettings{client: client}
}

func (s *RedisSettings) CommunityType(ctx context.Context, channelID string) (string, error) {
	ct, err := s.client.Get(ctx, CommunityPrefix+channelID).Result()
	if err == redis.Nil {
		return DefaultCommunityType, nil
	}
	if err != nil {
		return "", fmt.Errorf("channel: get community type: %w", err)
	}
	return NormalizeCommunityType(ct), nil
}

func (s *RedisSettings) SetCommunityType(ctx context.Context, channelID, communityType string) error {
	ct := NormalizeCommunityType(communityType)
	if err := s.client.Set(ctx, CommunityPrefix+channelID, ct, 0).Err(); err != nil {
		return fmt.Errorf("channel: set community type: %w", err)
	}
	return nil
}
