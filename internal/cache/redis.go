package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/postboard/postboard/internal/post"
	"github.com/postboard/postboard/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// PostCache stores posts as JSON under key "<prefix><seo>" with a fixed TTL.
// A nil client turns every operation into a no-op miss.
type PostCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPostCache creates a Redis-backed post cache. Prefix may be empty.
func NewPostCache(client *redis.Client, prefix string, ttl time.Duration) *PostCache {
	if prefix == "" {
		prefix = "post:seo:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PostCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *PostCache) key(seo string) string {
	return c.prefix + seo
}

// Get returns the cached post for seo, or nil on a miss.
func (c *PostCache) Get(ctx context.Context, seo string) (*post.Post, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	b, err := c.client.Get(ctx, c.key(seo)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, err
	}
	var p post.Post
	if err := json.Unmarshal(b, &p); err != nil {
		// unreadable entry, drop it
		_ = c.client.Del(ctx, c.key(seo)).Err()
		return nil, nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &p, nil
}

func (c *PostCache) Set(ctx context.Context, p *post.Post) error {
	if c == nil || c.client == nil || p == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(p.Seo), b, c.ttl).Err()
}

func (c *PostCache) Invalidate(ctx context.Context, seo string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(seo)).Err()
}

// Ping reports whether the backing Redis is reachable.
func (c *PostCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}
