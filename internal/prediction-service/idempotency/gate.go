package idempotency

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
)

var (
	ErrConflict   = errors.New("idempotency key reused with a different payload")
	ErrInProgress = errors.New("request with this idempotency key is in progress")
)

// Records é a parte do store que guarda as respostas por (usuário, chave).
type Records interface {
	GetIdempotency(ctx context.Context, userID, key string, now time.Time) (domain.IdempotencyRecord, bool, error)
	SaveIdempotency(ctx context.Context, rec domain.IdempotencyRecord) error
}

// Gate deduplica envios repetidos pelo cliente.
// É rede de segurança: falha de leitura no store ou no Redis não bloqueia o usuário.
type Gate struct {
	Records Records
	Locker  Locker // opcional
	TTL     time.Duration
	LockTTL time.Duration
	Log     *zap.Logger
	Now     func() time.Time
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Gate) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

// Ticket representa a passagem de uma requisição pelo gate.
// Replay != nil significa que a resposta guardada deve ser devolvida sem reprocessar.
type Ticket struct {
	gate   *Gate
	userID string
	key    string
	hash   string
	locked bool
	Replay *domain.IdempotencyRecord
}

// Begin consulta o registro da chave e, se for executar, reserva a chave no Redis.
// Sem chave não há deduplicação.
func (g *Gate) Begin(ctx context.Context, userID, key, hash string) (*Ticket, error) {
	t := &Ticket{gate: g, userID: userID, key: key, hash: hash}
	if key == "" {
		return t, nil
	}

	rec, found, err := g.Records.GetIdempotency(ctx, userID, key, g.now())
	switch {
	case err != nil:
		g.logger().Warn("idempotency lookup failed, processing normally",
			zap.String("user_id", userID), zap.Error(err))
	case found && rec.RequestHash == hash:
		t.Replay = &rec
		return t, nil
	case found:
		return nil, ErrConflict
	}

	if g.Locker != nil {
		ok, err := g.Locker.Acquire(ctx, userID+":"+key, g.LockTTL)
		switch {
		case err != nil:
			g.logger().Warn("idempotency lock unavailable", zap.Error(err))
		case !ok:
			return nil, ErrInProgress
		default:
			t.locked = true
		}
	}
	return t, nil
}

// Record guarda a resposta final. Erro aqui só é logado: o cliente já tem a resposta.
func (t *Ticket) Record(ctx context.Context, status int, body []byte) {
	if t.key == "" {
		return
	}
	g := t.gate
	now := g.now()
	rec := domain.IdempotencyRecord{
		UserID:         t.userID,
		Key:            t.key,
		RequestHash:    t.hash,
		ResponseStatus: status,
		ResponseBody:   body,
		ExpiresAt:      now.Add(g.TTL),
		CreatedAt:      now,
	}
	if err := g.Records.SaveIdempotency(ctx, rec); err != nil {
		g.logger().Error("idempotency save failed",
			zap.String("user_id", t.userID), zap.Error(err))
	}
}

// Release libera a reserva da chave. Seguro para chamar mais de uma vez.
func (t *Ticket) Release(ctx context.Context) {
	if !t.locked {
		return
	}
	t.locked = false
	if err := t.gate.Locker.Release(ctx, t.userID+":"+t.key); err != nil {
		t.gate.logger().Warn("idempotency lock release failed", zap.Error(err))
	}
}
