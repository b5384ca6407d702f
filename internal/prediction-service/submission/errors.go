package submission

import (
	"errors"
	"fmt"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/idempotency"
)

var (
	ErrAuthRequired          = errors.New("authentication required")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrPoolNotFound          = errors.New("pool not found")
	ErrMatchNotFound         = errors.New("match not found")
	ErrInvalidFixture        = errors.New("match has no usable start time")
	ErrPersistence           = errors.New("persistence error")
	ErrIdempotencyConflict   = idempotency.ErrConflict
	ErrIdempotencyInProgress = idempotency.ErrInProgress
)

// Motivos de janela fechada.
const (
	ReasonNoOverride       = "no_override_available"
	ReasonBoosterForInsert = "booster_required_insert"
	ReasonBoosterForUpdate = "booster_required_update"
	ReasonKickoffPassed    = "kickoff_passed"
)

// WindowClosedError indica que o palpite está fora da janela.
// Booster vem preenchido quando um booster liberaria o envio.
type WindowClosedError struct {
	Reason  string
	Booster domain.BoosterKind
}

func (e *WindowClosedError) Error() string {
	if e.Booster != "" {
		return fmt.Sprintf("need %s to proceed", e.Booster)
	}
	if e.Reason == ReasonKickoffPassed {
		return "match already started"
	}
	return "prediction window closed"
}
