package producer

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

type captureWriter struct{ msgs []kafkago.Message }

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestPublishPredictionSubmittedKeysByMatch(t *testing.T) {
	preds, boosters := &captureWriter{}, &captureWriter{}
	p := NewKafkaPublisher(preds, boosters)

	err := p.PublishPredictionSubmitted(context.Background(), events.PredictionSubmitted{
		PoolID: "P1", MatchID: "M1", UserID: "u1", Outcome: 1,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(preds.msgs) != 1 || len(boosters.msgs) != 0 {
		t.Fatalf("expected one message on predictions topic")
	}
	m := preds.msgs[0]
	if string(m.Key) != "M1" {
		t.Fatalf("expected key M1, got %q", m.Key)
	}
	var got events.PredictionSubmitted
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TsUnixMs == 0 || got.Outcome != 1 {
		t.Fatalf("unexpected payload %+v", got)
	}
	var raw map[string]any
	_ = json.Unmarshal(m.Value, &raw)
	if _, ok := raw["home_pred"]; ok {
		t.Fatalf("scores must not be published")
	}
}

func TestPublishBoosterConsumedKeysByUsage(t *testing.T) {
	preds, boosters := &captureWriter{}, &captureWriter{}
	p := NewKafkaPublisher(preds, boosters)

	err := p.PublishBoosterConsumed(context.Background(), events.BoosterConsumed{
		UsageID: "use-1", ActivationID: "act-1", UserID: "u1", BoosterID: "o_esquecido", TsUnixMs: 42,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(boosters.msgs) != 1 || string(boosters.msgs[0].Key) != "use-1" {
		t.Fatalf("unexpected messages %+v", boosters.msgs)
	}
	var got events.BoosterConsumed
	_ = json.Unmarshal(boosters.msgs[0].Value, &got)
	if got.TsUnixMs != 42 {
		t.Fatalf("explicit timestamp must be kept, got %d", got.TsUnixMs)
	}
}
