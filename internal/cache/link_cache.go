// Package cache keeps user -> retailer links in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkCache remembers which retailer a RETAILER account belongs to.
type LinkCache interface {
	Get(ctx context.Context, userID uint64) (retailerID uint64, ok bool, err error)
	Set(ctx context.Context, userID, retailerID uint64) error
}

type redisLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLinkCache(client *redis.Client, ttl time.Duration) LinkCache {
	return &redisLinkCache{client: client, ttl: ttl}
}

func linkKey(userID uint64) string {
	return fmt.Sprintf("crm:user:%d:retailer", userID)
}

func (c *redisLinkCache) Get(ctx context.Context, userID uint64) (uint64, bool, error) {
	v, err := c.client.Get(ctx, linkKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		// corrupt entry, treat as a miss
		_ = c.client.Del(ctx, linkKey(userID)).Err()
		return 0, false, nil
	}
	return id, true, nil
}

func (c *redisLinkCache) Set(ctx context.Context, userID, retailerID uint64) error {
	return c.client.Set(ctx, linkKey(userID), strconv.FormatUint(retailerID, 10), c.ttl).Err()
}

// NewRedisClient connects and pings; callers fall back to uncached lookups on error.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
