package render

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ByteCache stores rendered PDFs keyed by document identity and layout.
// The key embeds the document's UpdatedAt, so any edit naturally
// invalidates stale entries without explicit purging.
type ByteCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewByteCache(client *redis.Client, ttl time.Duration) *ByteCache {
	return &ByteCache{client: client, ttl: ttl}
}

func cacheKey(docID int64, updatedAt time.Time, layout string) string {
	return fmt.Sprintf("render:%d:%d:%s", docID, updatedAt.UTC().Unix(), layout)
}

// GetOrRender returns the cached bytes for the key, or collapses
// concurrent misses onto a single render call and stores its result.
// Redis being down degrades to rendering on every request.
func (c *ByteCache) GetOrRender(ctx context.Context, docID int64, updatedAt time.Time, layout string, render func() ([]byte, error)) ([]byte, error) {
	key := cacheKey(docID, updatedAt, layout)

	if c.client != nil {
		if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return data, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		data, err := render()
		if err != nil {
			return nil, err
		}
		if c.client != nil {
			// best effort; a failed SET only costs a future re-render
			c.client.Set(ctx, key, data, c.ttl)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
