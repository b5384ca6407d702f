package tally

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

// SeenTTL é por quanto tempo um uso processado fica marcado (dedup de reentrega do Kafka).
const SeenTTL = 7 * 24 * time.Hour

// RedisTally projeta o livro de consumo de boosters em contadores por usuário.
type RedisTally struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTally(c *redis.Client) *RedisTally {
	return &RedisTally{Client: c, TTL: SeenTTL}
}

func seenKey(usageID string) string { return "booster:usage:seen:" + usageID }

func countKey(userID string) string { return "booster:consumed:" + userID }

// Apply soma o consumo uma única vez por usage_id. Devolve false para duplicata.
func (t *RedisTally) Apply(ctx context.Context, e events.BoosterConsumed) (bool, error) {
	first, err := t.Client.SetNX(ctx, seenKey(e.UsageID), e.ActivationID, t.TTL).Result()
	if err != nil {
		return false, err
	}
	if !first {
		return false, nil
	}
	if err := t.Client.HIncrBy(ctx, countKey(e.UserID), e.BoosterID, 1).Err(); err != nil {
		// desfaz a marca para a reentrega tentar de novo
		_ = t.Client.Del(ctx, seenKey(e.UsageID)).Err()
		return false, err
	}
	return true, nil
}

// Counts devolve booster -> quantidade consumida pelo usuário.
func (t *RedisTally) Counts(ctx context.Context, userID string) (map[string]int64, error) {
	raw, err := t.Client.HGetAll(ctx, countKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for booster, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[booster] = n
	}
	return out, nil
}
