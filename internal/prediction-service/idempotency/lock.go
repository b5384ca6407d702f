package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker reserva uma chave enquanto a requisição correspondente está em execução.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLocker usa SET NX com TTL; a trava some sozinha se o processo morrer.
type RedisLocker struct {
	R *redis.Client
}

func NewRedisLocker(r *redis.Client) *RedisLocker { return &RedisLocker{R: r} }

func lockKey(key string) string { return "idem:lock:" + key }

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.R.SetNX(ctx, lockKey(key), "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.R.Del(ctx, lockKey(key)).Err()
}
