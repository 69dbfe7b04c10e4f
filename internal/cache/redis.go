package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/beartech/tokenscope/internal/telemetry"
)

// Redis is the shared cache backend for multi-instance deployments.
// Backend errors are logged and treated as misses.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to redisURL (redis://...) and verifies the connection.
func NewRedis(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	if prefix == "" {
		prefix = "tokenscope:"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		telemetry.CacheEvent("miss")
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		telemetry.CacheEvent("miss")
		return nil, false
	}
	telemetry.CacheEvent("hit")
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (r *Redis) Stop() {
	if err := r.client.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
}
