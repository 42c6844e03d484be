package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"telecom-agent/internal/domain"
)

// ConversationCache memoizes the session to conversation mapping so repeat
// turns skip the database upsert. A nil cache means every turn goes straight
// to storage.
type ConversationCache interface {
	Get(ctx context.Context, sessionID string) (domain.Conversation, bool)
	Set(ctx context.Context, sessionID string, conv domain.Conversation)
}

type redisConversationCache struct {
	client redisStringCmd
	ttl    time.Duration
	prefix string
}

// redisStringCmd is the slice of the redis client the cache needs; tests
// substitute it.
type redisStringCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func NewRedisConversationCache(client *redis.Client, ttl time.Duration) ConversationCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisConversationCache{
		client: client,
		ttl:    ttl,
		prefix: "conv:sess:",
	}
}

// Cache failures are treated as misses; the database remains the source of
// truth.
func (c *redisConversationCache) Get(ctx context.Context, sessionID string) (domain.Conversation, bool) {
	if c == nil || c.client == nil || sessionID == "" {
		return domain.Conversation{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	data, err := c.client.Get(ctx, c.prefix+sessionID).Bytes()
	if err != nil {
		return domain.Conversation{}, false
	}

	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return domain.Conversation{}, false
	}
	return conv, true
}

func (c *redisConversationCache) Set(ctx context.Context, sessionID string, conv domain.Conversation) {
	if c == nil || c.client == nil || sessionID == "" {
		return
	}

	data, err := json.Marshal(conv)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	c.client.Set(ctx, c.prefix+sessionID, data, c.ttl)
}
