// Package window classifica o instante de envio de um palpite em relação ao
// início da partida. Não faz I/O.
package window

import (
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
)

const (
	ExtendedOffset = 60 * time.Minute // início da janela estendida (T-60)
	LateOffset     = 15 * time.Minute // início da janela tardia (T-15)
)

// Phase é a fase bruta do relógio, sem considerar se já existe palpite.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseExtended
	PhaseLate
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseExtended:
		return "extended"
	case PhaseLate:
		return "late"
	default:
		return "closed"
	}
}

// State é o resultado da classificação de um envio.
type State int

const (
	StateOpen State = iota
	StateExtendedInsertNeedsBooster
	StateExtendedUpdateNeedsBooster
	StateLateNeedsBooster
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateExtendedInsertNeedsBooster:
		return "EXTENDED_INSERT_NEEDS_BOOSTER"
	case StateExtendedUpdateNeedsBooster:
		return "EXTENDED_UPDATE_NEEDS_BOOSTER"
	case StateLateNeedsBooster:
		return "LATE_NEEDS_BOOSTER"
	default:
		return "CLOSED"
	}
}

// RequiredBooster devolve o booster exigido pelo estado, se houver.
func (s State) RequiredBooster() (domain.BoosterKind, bool) {
	switch s {
	case StateExtendedInsertNeedsBooster:
		return domain.BoosterOEsquecido, true
	case StateExtendedUpdateNeedsBooster, StateLateNeedsBooster:
		return domain.BoosterSegundaChance, true
	default:
		return "", false
	}
}

// PhaseAt: os instantes de fronteira pertencem à fase mais restrita
// (T-60 já é EXTENDED, T-15 já é LATE, T já é CLOSED).
func PhaseAt(now, start time.Time) Phase {
	switch {
	case now.Before(start.Add(-ExtendedOffset)):
		return PhaseOpen
	case now.Before(start.Add(-LateOffset)):
		return PhaseExtended
	case now.Before(start):
		return PhaseLate
	default:
		return PhaseClosed
	}
}

// Classify decide o estado do envio para (agora, início, já existe palpite ativo).
func Classify(now, start time.Time, hasExisting bool) State {
	switch PhaseAt(now, start) {
	case PhaseOpen:
		return StateOpen
	case PhaseExtended:
		if hasExisting {
			return StateExtendedUpdateNeedsBooster
		}
		return StateExtendedInsertNeedsBooster
	case PhaseLate:
		// na janela tardia só dá pra alterar palpite que já existe
		if hasExisting {
			return StateLateNeedsBooster
		}
		return StateClosed
	default:
		return StateClosed
	}
}
