package events

// Evento emitido quando um booster é consumido para liberar um palpite fora da janela.
type BoosterConsumed struct {
	UsageID      string `json:"usage_id"`
	ActivationID string `json:"activation_id"`
	PoolID       string `json:"pool_id"`
	MatchID      string `json:"match_id"`
	UserID       string `json:"user_id"`
	BoosterID    string `json:"booster_id"` // "segunda_chance" | "o_esquecido"
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
