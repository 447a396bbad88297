package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces geocoding entries in a shared Redis instance.
const redisKeyPrefix = "gazetteer:geocode:"

// Redis caches geocoding results in a Redis instance so that entries
// survive restarts and are shared between replicas. Results are stored as
// JSON with the configured TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedis creates a Redis-backed cache. A ttl of zero stores entries
// without expiry.
func NewRedis(client *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

// Get fetches and decodes the cached result for the key. Backend and
// decoding failures are logged and reported as a miss.
func (r *Redis) Get(ctx context.Context, key string) (*models.GeocodingResult, bool) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.WarnContext(ctx, "Redis cache read failed", "key", key, "error", err)
		return nil, false
	}

	var result models.GeocodingResult
	if err = json.Unmarshal(payload, &result); err != nil {
		r.log.WarnContext(ctx, "Failed to decode cached result", "key", key, "error", err)
		return nil, false
	}

	return &result, true
}

// Set encodes and stores the result under the key. Failures are logged; the
// caller's result is served regardless.
func (r *Redis) Set(ctx context.Context, key string, result *models.GeocodingResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to encode result for cache", "key", key, "error", err)
		return
	}

	if err = r.client.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "Redis cache write failed", "key", key, "error", err)
	}
}
