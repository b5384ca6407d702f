package dto

import "math"

// SubmitPredictionRequest é o corpo de POST /pools/{poolIdOrCode}/predictions.
// Campos como ponteiro para diferenciar "ausente" de zero.
type SubmitPredictionRequest struct {
	MatchID  string   `json:"matchId"`
	HomePred *float64 `json:"home_pred"`
	AwayPred *float64 `json:"away_pred"`
}

// Scores valida e devolve o placar como inteiros não negativos.
func (r SubmitPredictionRequest) Scores() (home, away int, ok bool) {
	if r.MatchID == "" || r.HomePred == nil || r.AwayPred == nil {
		return 0, 0, false
	}
	h, okH := wholeNonNegative(*r.HomePred)
	a, okA := wholeNonNegative(*r.AwayPred)
	if !okH || !okA {
		return 0, 0, false
	}
	return h, a, true
}

func wholeNonNegative(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
