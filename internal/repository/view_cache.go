package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ViewCache short-circuits view recording for pairs already known to be viewed
type ViewCache interface {
	Seen(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	Mark(ctx context.Context, userID, projectID uuid.UUID) error
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisViewCache returns a ViewCache backed by redis keys that expire after ttl
func NewRedisViewCache(client *redis.Client, ttl time.Duration) ViewCache {
	return &redisViewCache{client: client, ttl: ttl}
}

func viewKey(userID, projectID uuid.UUID) string {
	return fmt.Sprintf("views:%s:%s", projectID, userID)
}

func (c *redisViewCache) Seen(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	n, err := c.client.Exists(ctx, viewKey(userID, projectID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisViewCache) Mark(ctx context.Context, userID, projectID uuid.UUID) error {
	return c.client.Set(ctx, viewKey(userID, projectID), 1, c.ttl).Err()
}

type noopViewCache struct{}

// NoopViewCache never reports a pair as seen
func NoopViewCache() ViewCache { return noopViewCache{} }

func (noopViewCache) Seen(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil }
func (noopViewCache) Mark(context.Context, uuid.UUID, uuid.UUID) error         { return nil }
