package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/radieske/bolao-predictions/internal/shared/kafka"
	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do serviço de palpites.
// Palpites usam a partida como chave; consumos usam o id do uso.
type KafkaPublisher struct {
	Predictions kafka.MessageWriter // tópico predictions_submitted
	Boosters    kafka.MessageWriter // tópico boosters_consumed
}

func NewKafkaPublisher(predictions, boosters kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Predictions: predictions, Boosters: boosters}
}

func (p *KafkaPublisher) PublishPredictionSubmitted(ctx context.Context, e events.PredictionSubmitted) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Predictions, e.MatchID, b)
}

func (p *KafkaPublisher) PublishBoosterConsumed(ctx context.Context, e events.BoosterConsumed) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Boosters, e.UsageID, b)
}
