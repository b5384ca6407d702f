package consumer

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/shared/kafka"
	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

// Tally é a projeção que recebe cada consumo de booster.
type Tally interface {
	Apply(ctx context.Context, e events.BoosterConsumed) (bool, error)
}

// Processor consome boosters_consumed e atualiza os contadores por usuário.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log    *zap.Logger
	Reader kafka.MessageReader
	Tally  Tally
	DLQ    kafka.MessageWriter // opcional: mensagens ilegíveis

	RetryDelay time.Duration

	OnConsumed  func()       // métricas (counter++)
	OnApplied   func()       // métricas
	OnDuplicate func()       // métricas
	OnError     func(string) // métricas por fase
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

// Run inicia o loop de consumo até o contexto ser cancelado.
func (p *Processor) Run(ctx context.Context) error {
	delay := p.RetryDelay
	if delay == 0 {
		delay = 500 * time.Millisecond
	}

	for {
		m, err := p.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.BoosterConsumed
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.UsageID == "" || ev.UserID == "" || ev.BoosterID == "" {
			p.Log.Warn("invalid message", zap.Error(err), zap.ByteString("key", m.Key))
			p.fail("decode")
			p.deadLetter(ctx, m)
			p.commit(ctx, m)
			continue
		}

		// sem commit se o apply não terminou: a mensagem volta no próximo fetch do grupo
		if err := p.apply(ctx, ev, delay); err != nil {
			return err
		}
		p.commit(ctx, m)
	}
}

// commit confirma o offset. Falha só é logada; a reentrega é absorvida pelo dedup do tally.
func (p *Processor) commit(ctx context.Context, m kafkago.Message) {
	if err := p.Reader.CommitMessages(ctx, m); err != nil {
		p.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		p.fail("commit")
	}
}

// apply repete até aplicar ou o contexto ser cancelado.
func (p *Processor) apply(ctx context.Context, ev events.BoosterConsumed, delay time.Duration) error {
	for {
		applied, err := p.Tally.Apply(ctx, ev)
		if err == nil {
			switch {
			case applied && p.OnApplied != nil:
				p.OnApplied()
			case !applied && p.OnDuplicate != nil:
				p.OnDuplicate()
			}
			return nil
		}
		p.Log.Warn("tally apply failed", zap.String("usage_id", ev.UsageID), zap.Error(err))
		p.fail("tally")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafkago.Message) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.WriteMessages(ctx, kafkago.Message{Key: m.Key, Value: m.Value, Time: time.Now()}); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
		p.fail("dlq")
	}
}
