package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed stats caching so dashboards skip the aggregate query.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ StatsCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(userID uuid.UUID) string {
	return "stats:overview:" + userID.String()
}

func (c *Cache) Get(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Cache) Set(ctx context.Context, userID uuid.UUID, stats Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
