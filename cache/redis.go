package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobsift/jdextract/models"
)

// redisTTL bounds how long any entry lives server-side. Per-request maxAge
// still applies on top via the stored timestamp.
const redisTTL = time.Hour

// redisEntry is the JSON envelope stored in Redis. The creation time rides
// along so age checks survive process restarts.
type redisEntry struct {
	Response  *models.ExtractResponse `json:"response"`
	CreatedAt time.Time               `json:"created_at"`
}

// Redis is a Store backed by a Redis instance, for deployments that run
// more than one extractor replica.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance at addr.
func NewRedis(addr string) *Redis {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &Redis{client: rdb}
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string, maxAgeMs int) (*models.ExtractResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	raw, err := r.client.Get(ctx, "jd:"+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis cache read failed", "error", err)
		}
		return nil, false
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Response == nil {
		return nil, false
	}
	if time.Since(e.CreatedAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.Response, true
}

func (r *Redis) Set(ctx context.Context, key string, res *models.ExtractResponse) {
	raw, err := json.Marshal(redisEntry{Response: res, CreatedAt: time.Now()})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, "jd:"+key, raw, redisTTL).Err(); err != nil {
		slog.Warn("redis cache write failed", "error", err)
	}
}
