package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

func allowAll(*http.Request) bool { return true }

func dialPool(t *testing.T, hub *Hub, poolID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, poolID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, hub *Hub, poolID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(poolID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers on %s, got %d", n, poolID, hub.Subscribers(poolID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubPingPong(t *testing.T) {
	hub := NewHub(allowAll, zaptest.NewLogger(t))
	conn := dialPool(t, hub, "P1")

	if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got["type"] != "pong" {
		t.Fatalf("expected pong, got %v", got)
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(allowAll, zaptest.NewLogger(t))
	conn := dialPool(t, hub, "P1")
	waitSubscribers(t, hub, "P1", 1)

	_ = conn.Close()
	waitSubscribers(t, hub, "P1", 0)
}

func TestRedisFeedReachesOnlyPoolSubscribers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := zaptest.NewLogger(t)
	hub := NewHub(allowAll, log)
	if err := StartRedisSubscriber(ctx, rdb, "", hub, log); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	p1 := dialPool(t, hub, "P1")
	p2 := dialPool(t, hub, "P2")
	waitSubscribers(t, hub, "P1", 1)
	waitSubscribers(t, hub, "P2", 1)

	pub := NewRedisPublisher(rdb, "")
	at := time.Date(2025, 1, 1, 16, 30, 0, 0, time.UTC)
	err := pub.NotifyActivity(ctx, "P1", submission.Activity{
		Type: submission.ActivityBoosterConsumed, UserID: "u1", MatchID: "M1", Booster: "o_esquecido", At: at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = p1.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	if err := p1.ReadJSON(&got); err != nil {
		t.Fatalf("read P1: %v", err)
	}
	if got.PoolID != "P1" || got.Payload.UserID != "u1" || got.Payload.Booster != "o_esquecido" || !got.Payload.At.Equal(at) {
		t.Fatalf("unexpected message %+v", got)
	}

	_ = p2.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := p2.ReadMessage(); err == nil {
		t.Fatalf("P2 subscriber must not receive P1 activity")
	}
}
