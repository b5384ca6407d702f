package events

// Evento publicado no tópico "predictions_submitted" após o commit do palpite.
// Placar não é publicado: o evento só informa que o palpite existe.
type PredictionSubmitted struct {
	PoolID    string `json:"pool_id"`
	MatchID   string `json:"match_id"`
	UserID    string `json:"user_id"`
	Outcome   int    `json:"outcome"`              // -1 visitante, 0 empate, 1 mandante
	Updated   bool   `json:"updated"`              // true quando substituiu um palpite ativo
	BoosterID string `json:"booster_id,omitempty"` // booster consumido, se houver
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
