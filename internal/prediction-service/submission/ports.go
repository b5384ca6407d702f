package submission

import (
	"context"
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

// Store são as operações de registro que o motor consome.
// A implementação com database/sql fica em repo.
type Store interface {
	ResolvePool(ctx context.Context, userID, ref string) (domain.PoolResolution, error)
	LoadMatch(ctx context.Context, poolID, matchID string) (domain.Match, error)
	HasActivePrediction(ctx context.Context, matchID, userID string) (bool, error)
	ListActivations(ctx context.Context, userID string, booster domain.BoosterKind) ([]domain.BoosterActivation, error)
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx agrupa as escritas que precisam acontecer juntas.
type Tx interface {
	// ExpireActivation devolve false se a ativação já não estava ativa.
	ExpireActivation(ctx context.Context, activationID, matchID string) (bool, error)
	UpsertPrediction(ctx context.Context, p domain.Prediction) error
	InsertUsage(ctx context.Context, u domain.BoosterUsage) error
}

// EventPublisher publica os eventos de domínio após o commit.
type EventPublisher interface {
	PublishPredictionSubmitted(ctx context.Context, e events.PredictionSubmitted) error
	PublishBoosterConsumed(ctx context.Context, e events.BoosterConsumed) error
}

// FeedNotifier avisa o feed do bolão. Nunca recebe placar.
type FeedNotifier interface {
	NotifyActivity(ctx context.Context, poolID string, a Activity) error
}

// Activity é o que o feed do bolão fica sabendo de um envio.
type Activity struct {
	Type    string    `json:"type"`
	UserID  string    `json:"userId"`
	MatchID string    `json:"matchId"`
	Booster string    `json:"booster,omitempty"`
	At      time.Time `json:"at"`
}

const (
	ActivityPredictionSubmitted = "prediction_submitted"
	ActivityBoosterConsumed     = "booster_consumed"
)
