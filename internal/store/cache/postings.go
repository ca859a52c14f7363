// internal/store/cache/postings.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"

	"github.com/redis/go-redis/v9"
)

// PostingCache is a read-through Redis cache in front of a PostingStore.
// Postings change rarely relative to submission traffic, so the gate reads
// them through a short TTL. Cache failures degrade to the inner store.
type PostingCache struct {
	inner  store.PostingStore
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewPostingCache(inner store.PostingStore, client *redis.Client, ttl time.Duration, log logger.Logger) *PostingCache {
	return &PostingCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "posting-cache"}),
	}
}

func cacheKey(tenantID, postingID string) string {
	return fmt.Sprintf("posting:%s:%s", tenantID, postingID)
}

func (c *PostingCache) Get(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error) {
	key := cacheKey(tenantID, postingID)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var p models.JobPosting
		if unmarshalErr := json.Unmarshal([]byte(raw), &p); unmarshalErr == nil {
			return &p, nil
		}
		// Corrupt entry, fall through to the store.
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed", map[string]interface{}{
			"error": err,
			"key":   key,
		})
	}

	p, err := c.inner.Get(ctx, tenantID, postingID)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(p); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{
				"error": setErr,
				"key":   key,
			})
		}
	}

	return p, nil
}

// UpdateMetrics writes through and invalidates the cached posting so the
// next gate read observes fresh counters.
func (c *PostingCache) UpdateMetrics(ctx context.Context, tenantID, postingID string, m models.PostingMetrics) error {
	if err := c.inner.UpdateMetrics(ctx, tenantID, postingID, m); err != nil {
		return err
	}

	if err := c.client.Del(ctx, cacheKey(tenantID, postingID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{
			"error":     err,
			"postingId": postingID,
		})
	}
	return nil
}
