package feed

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

// RedisPublisher publica a atividade dos bolões no Redis Pub/Sub.
// Todas as réplicas do serviço assinam o canal e repassam para seus clientes.
type RedisPublisher struct {
	r       *redis.Client
	channel string
}

func NewRedisPublisher(r *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{r: r, channel: channel}
}

func (p *RedisPublisher) NotifyActivity(ctx context.Context, poolID string, a submission.Activity) error {
	b, err := json.Marshal(Message{PoolID: poolID, Payload: a})
	if err != nil {
		return err
	}
	return p.r.Publish(ctx, p.channel, b).Err()
}
