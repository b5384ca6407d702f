package cache

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis aceita "host:porta" ou uma URI redis:// / rediss:// (com senha e TLS).
func ConnectRedis(addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
