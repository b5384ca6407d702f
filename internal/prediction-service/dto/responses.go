package dto

// SubmitPredictionResponse é a resposta de sucesso. É guardada byte a byte para replay.
type SubmitPredictionResponse struct {
	OK          bool   `json:"ok"`
	Outcome     int    `json:"outcome"`
	BoosterUsed string `json:"booster_used,omitempty"`
}

type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// ConsumedBoostersResponse é a resposta de GET /me/boosters/consumed.
type ConsumedBoostersResponse struct {
	UserID   string           `json:"userId"`
	Consumed map[string]int64 `json:"consumed"`
}
