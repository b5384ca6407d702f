package feed

import "github.com/radieske/bolao-predictions/internal/prediction-service/submission"

// DefaultChannel é o canal Redis Pub/Sub do feed dos bolões.
const DefaultChannel = "pool_feed_broadcast"

// Message é o que trafega no canal Redis e chega aos clientes WebSocket.
type Message struct {
	PoolID  string              `json:"poolId"`
	Payload submission.Activity `json:"payload"`
}

// ClientMsg representa uma mensagem recebida do cliente WebSocket.
type ClientMsg struct {
	Type string `json:"type"` // ping
}
