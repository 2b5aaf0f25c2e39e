package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"geocatch/internal/model"
)

const listingKey = "geocatch:caches:listing"

// ListingCache keeps the full cache listing in Redis for a short TTL.
type ListingCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewListingCache(client *redisv9.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListingCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ListingCache) GetListing(ctx context.Context) ([]model.Cache, bool, error) {
	raw, err := c.client.Get(ctx, listingKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get listing failed: %w", err)
	}

	var caches []model.Cache
	if err := json.Unmarshal([]byte(raw), &caches); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached listing failed: %w", err)
	}
	return caches, true, nil
}

func (c *ListingCache) SetListing(ctx context.Context, caches []model.Cache) error {
	payload, err := json.Marshal(caches)
	if err != nil {
		return fmt.Errorf("marshal listing cache failed: %w", err)
	}
	if err := c.client.Set(ctx, listingKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set listing failed: %w", err)
	}
	return nil
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		return fmt.Errorf("redis delete listing failed: %w", err)
	}
	return nil
}
