package submission

import (
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
)

// SelectActivation escolhe a ativação que libera o envio: primeiro a específica
// da partida, depois a global do bolão ou da conta. Expiradas ficam de fora.
func SelectActivation(list []domain.BoosterActivation, poolID, matchID string, now time.Time) (domain.BoosterActivation, bool) {
	var global *domain.BoosterActivation
	for i := range list {
		a := list[i]
		if !a.ValidAt(now) {
			continue
		}
		if a.MatchScoped() {
			if a.MatchID == matchID {
				return a, true
			}
			continue
		}
		if global == nil && (a.PoolID == "" || a.PoolID == poolID) {
			global = &list[i]
		}
	}
	if global != nil {
		return *global, true
	}
	return domain.BoosterActivation{}, false
}
