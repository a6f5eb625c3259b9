package statuscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"daywise/internal/residency/models"
	id "daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

const (
	statusKeyPrefix     = "status:"
	generationKeyPrefix = "status:gen:"

	// Generation keys outlive status entries so a bumped generation is never
	// forgotten while stale entries still have TTL left.
	generationTTL = 7 * 24 * time.Hour
)

// RedisStatusCache is the production implementation for distributed
// deployments where multiple instances share computed statuses.
type RedisStatusCache struct {
	client *redis.Client
}

func NewRedisStatusCache(client *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{client: client}
}

func (c *RedisStatusCache) Get(ctx context.Context, subjectID id.SubjectID, date id.Date) (*models.DailyStatus, error) {
	gen, err := c.generation(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	raw, err := c.client.Get(ctx, c.key(subjectID, gen, date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "status cache get failed")
	}

	var status models.DailyStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, nil
	}
	return &status, nil
}

func (c *RedisStatusCache) Set(ctx context.Context, subjectID id.SubjectID, status models.DailyStatus, ttl time.Duration) error {
	gen, err := c.generation(ctx, subjectID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "status cache encode failed")
	}
	if err := c.client.Set(ctx, c.key(subjectID, gen, status.Date), raw, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "status cache set failed")
	}
	return nil
}

func (c *RedisStatusCache) Invalidate(ctx context.Context, subjectID id.SubjectID) error {
	key := generationKeyPrefix + subjectID.String()
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, generationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "status cache invalidate failed")
	}
	return nil
}

func (c *RedisStatusCache) generation(ctx context.Context, subjectID id.SubjectID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKeyPrefix+subjectID.String()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "status cache generation lookup failed")
	}
	return gen, nil
}

func (c *RedisStatusCache) key(subjectID id.SubjectID, generation int64, date id.Date) string {
	return fmt.Sprintf("%s%s:%d:%s", statusKeyPrefix, subjectID, generation, date)
}
