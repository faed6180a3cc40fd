package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookline/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityCache keeps recently computed candidate sets in Redis. Every
// key carries a per-(professional, date) version that the coordinator bumps
// on commit and cancellation, so stale entries die without pattern scans.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache wraps the given Redis client. ttl bounds how long a
// candidate set may be served even without an intervening booking.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Get returns the cached candidate starts for the current version, if any.
// Cache failures degrade to a recompute, never to an error.
func (c *AvailabilityCache) Get(professionalID, date string, totalDuration int) ([]int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key, err := c.dataKey(ctx, professionalID, date, totalDuration)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var starts []int
	if err := json.Unmarshal([]byte(raw), &starts); err != nil {
		return nil, false
	}
	return starts, true
}

// Put stores the candidate starts under the current version.
func (c *AvailabilityCache) Put(professionalID, date string, totalDuration int, starts []int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key, err := c.dataKey(ctx, professionalID, date, totalDuration)
	if err != nil {
		return
	}
	raw, err := json.Marshal(starts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		utils.GetLogger().Debug("availability cache put failed", zap.Error(err))
	}
}

// Invalidate bumps the version for a professional/date, orphaning every
// cached candidate set for it.
func (c *AvailabilityCache) Invalidate(professionalID, date string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Incr(ctx, c.versionKey(professionalID, date)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed",
			zap.String("professionalID", professionalID), zap.String("date", date), zap.Error(err))
	}
}

func (c *AvailabilityCache) versionKey(professionalID, date string) string {
	return fmt.Sprintf("slots:ver:%s:%s", professionalID, date)
}

func (c *AvailabilityCache) dataKey(ctx context.Context, professionalID, date string, totalDuration int) (string, error) {
	ver, err := c.client.Get(ctx, c.versionKey(professionalID, date)).Result()
	if err == redis.Nil {
		ver = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("slots:%s:%s:%s:%d", professionalID, date, ver, totalDuration), nil
}
