package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"video-gallery/constant"
	"video-gallery/entities"
)

// Listing caches the full newest-first video listing under a single key.
type Listing struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListing(client *redis.Client, ttl time.Duration) *Listing {
	if ttl <= 0 {
		ttl = constant.DefaultListingCacheTTL
	}
	return &Listing{client: client, ttl: ttl}
}

func (l *Listing) Get(ctx context.Context) ([]*entities.Video, bool, error) {
	raw, err := l.client.Get(ctx, constant.ListingCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	videos := make([]*entities.Video, 0)
	if err := json.Unmarshal(raw, &videos); err != nil {
		// a payload we cannot read is as good as a miss
		_ = l.client.Del(ctx, constant.ListingCacheKey).Err()
		return nil, false, err
	}
	return videos, true, nil
}

func (l *Listing) Set(ctx context.Context, videos []*entities.Video) error {
	raw, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return l.client.Set(ctx, constant.ListingCacheKey, raw, l.ttl).Err()
}

func (l *Listing) Invalidate(ctx context.Context) error {
	return l.client.Del(ctx, constant.ListingCacheKey).Err()
}
