package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pointsCacheTTL = 60 * time.Second

// PointsCache caches per-BDE approved point totals in Redis. The
// cache is best-effort: a nil client (Redis unavailable) disables it
// and every lookup falls through to the store.
type PointsCache struct {
	client *redis.Client
}

func NewPointsCache(client *redis.Client) *PointsCache {
	return &PointsCache{client: client}
}

func dayPointsKey(day string, bdeID primitive.ObjectID) string {
	return fmt.Sprintf("points:day:%s:%s", day, bdeID.Hex())
}

func monthPointsKey(month string, bdeID primitive.ObjectID) string {
	return fmt.Sprintf("points:month:%s:%s", month, bdeID.Hex())
}

func (c *PointsCache) Get(ctx context.Context, key string) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	total, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (c *PointsCache) Set(ctx context.Context, key string, total int) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key, strconv.Itoa(total), pointsCacheTTL)
}

// InvalidateBDE drops the cached totals a fresh approval makes stale.
func (c *PointsCache) InvalidateBDE(ctx context.Context, bdeID primitive.ObjectID, now time.Time) {
	if c == nil || c.client == nil {
		return
	}
	day := now.Format("2006-01-02")
	month := now.Format("2006-01")
	c.client.Del(ctx, dayPointsKey(day, bdeID), monthPointsKey(month, bdeID))
}
