package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisBackend struct{ R *redis.Client }

func NewRedisBackend(r *redis.Client) *RedisBackend { return &RedisBackend{R: r} }

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return b.R.Set(ctx, key, val, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.R.Del(ctx, keys...).Err()
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.R.Ping(ctx).Err()
}
