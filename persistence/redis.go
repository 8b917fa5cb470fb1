package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each collection as a JSON blob under a namespaced key,
// the server-side equivalent of the browser localStorage variant.
type Redis struct {
	c *redis.Client
}

func NewRedis(addr, pass string, db int) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewRedisWithClient wraps an existing client, used by tests.
func NewRedisWithClient(c *redis.Client) *Redis {
	return &Redis{c: c}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func redisKey(key, userID string) string {
	return fmt.Sprintf("travel:%s:%s", key, userID)
}

func (r *Redis) ReadCollection(ctx context.Context, key, userID string) (json.RawMessage, bool, error) {
	v, err := r.c.Get(ctx, redisKey(key, userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis read %s/%s: %w", key, userID, err)
	}
	return v, true, nil
}

func (r *Redis) WriteCollection(ctx context.Context, key, userID string, data json.RawMessage) error {
	if err := r.c.Set(ctx, redisKey(key, userID), []byte(data), 0).Err(); err != nil {
		return fmt.Errorf("redis write %s/%s: %w", key, userID, err)
	}
	return nil
}
