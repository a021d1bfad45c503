package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-planner/internal/api/dto"
	"route-planner/internal/domain"
)

const suggestionKeyPrefix = "routeplanner:suggest:"

// RedisSuggestionCache keeps autocomplete results for a short TTL.
type RedisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisSuggestionCache) Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error) {
	key = Key(key)
	if key == "" {
		return nil, false, nil
	}

	b, err := c.client.Get(ctx, suggestionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: %w", err)
	}

	var cached []dto.SuggestionDTO
	if err := json.Unmarshal(b, &cached); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: decode %q: %w", key, err)
	}

	out := make([]domain.Suggestion, 0, len(cached))
	for _, s := range cached {
		out = append(out, s.ToDomain())
	}
	return out, true, nil
}

func (c *RedisSuggestionCache) Put(ctx context.Context, key string, found []domain.Suggestion) error {
	key = Key(key)
	if key == "" {
		return errors.New("put suggestion cache: empty key")
	}

	cached := make([]dto.SuggestionDTO, 0, len(found))
	for _, s := range found {
		cached = append(cached, dto.SuggestionFromDomain(s))
	}

	b, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("put suggestion cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, suggestionKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put suggestion cache: %w", err)
	}
	return nil
}
