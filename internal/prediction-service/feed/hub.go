package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var feedConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "bolao_feed_connections",
	Help: "Conexões WebSocket abertas no feed dos bolões",
})

// client serializa as escritas: gorilla/websocket não aceita writers concorrentes.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub mantém as conexões WebSocket agrupadas por bolão.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu sync.RWMutex
	// poolID -> conexões
	subs map[string]map[*client]struct{}
}

// NewHub cria o hub com a política de origem informada (CORS).
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// Serve faz o upgrade e mantém o cliente inscrito no bolão até desconectar.
// A autorização (membro do bolão) é feita antes, pelo handler HTTP.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, poolID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn}
	h.add(poolID, c)
	defer func() {
		h.remove(poolID, c)
		_ = conn.Close()
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			_ = c.write([]byte(`{"type":"pong"}`))
		}
	}
}

func (h *Hub) add(poolID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[poolID]; !ok {
		h.subs[poolID] = make(map[*client]struct{})
	}
	h.subs[poolID][c] = struct{}{}
	feedConnections.Inc()
}

func (h *Hub) remove(poolID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[poolID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			feedConnections.Dec()
		}
		if len(set) == 0 {
			delete(h.subs, poolID)
		}
	}
}

// Subscribers devolve quantas conexões estão inscritas no bolão.
func (h *Hub) Subscribers(poolID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[poolID])
}

// Broadcast envia a mensagem para os clientes do bolão correspondente.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.subs[msg.PoolID]))
	for c := range h.subs[msg.PoolID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("feed marshal failed", zap.Error(err))
		return
	}
	for _, c := range conns {
		if err := c.write(b); err != nil {
			h.log.Debug("feed write failed", zap.Error(err))
		}
	}
}
