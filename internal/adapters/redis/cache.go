package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

// GetRateCard returns the cached rate card bytes, or nil on a miss.
func (c *Cache) GetRateCard(ctx context.Context, vertical, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, "rate:"+vertical+":"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (c *Cache) SetRateCard(ctx context.Context, vertical, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, "rate:"+vertical+":"+key, data, ttl).Err()
}
