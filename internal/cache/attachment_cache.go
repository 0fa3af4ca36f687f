package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fieldserve_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// AttachmentCache caches per-owner attachment counts so list views don't hit
// the metadata store on every render. The lifecycle manager invalidates the
// owner's key on every create and delete; resolved URLs are never cached
// here (the object store may issue cache-busting variants).
//
// A nil *AttachmentCache is valid and disables caching entirely.
type AttachmentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAttachmentCache(rdb *redis.Client, ttl time.Duration) *AttachmentCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AttachmentCache{rdb: rdb, ttl: ttl}
}

func countKey(ownerType, ownerID string) string {
	return fmt.Sprintf("attachments:count:%s:%s", ownerType, ownerID)
}

// GetCount returns the cached count and whether it was present. Cache errors
// degrade to a miss.
func (c *AttachmentCache) GetCount(ctx context.Context, ownerType, ownerID string) (int64, bool) {
	if c == nil {
		return 0, false
	}

	val, err := c.rdb.Get(ctx, countKey(ownerType, ownerID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.CtxWarn(ctx, "attachment cache read failed", "error", err.Error())
		}
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *AttachmentCache) SetCount(ctx context.Context, ownerType, ownerID string, count int64) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, countKey(ownerType, ownerID), count, c.ttl).Err(); err != nil {
		logger.CtxWarn(ctx, "attachment cache write failed", "error", err.Error())
	}
}

// Invalidate drops the owner's cached count so dependent views refetch.
func (c *AttachmentCache) Invalidate(ctx context.Context, ownerType, ownerID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, countKey(ownerType, ownerID)).Err(); err != nil {
		logger.CtxWarn(ctx, "attachment cache invalidation failed", "error", err.Error())
	}
}
