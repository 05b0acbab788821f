package stream

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-mapty/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

func startStreamApp(t *testing.T, hub *Hub, secret string, onConnect ConnectFunc) string {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), hub, auth.SessionMiddleware(secret), onConnect)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })
	return ln.Addr().String()
}

func TestStreamHandlersRequireToken(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil, nil), auth.SessionMiddleware("secret"), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream/ws", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersUpgradeRequired(t *testing.T) {
	token, _ := auth.NewService("secret").Issue()
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil, nil), auth.SessionMiddleware("secret"), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream/ws?token="+token.Token, nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode == http.StatusOK {
		t.Fatalf("expected non-200 for non-websocket request")
	}
}

func TestStreamHandlersWebsocketBroadcast(t *testing.T) {
	token, _ := auth.NewService("secret").Issue()
	hub := NewHub(nil, nil)
	connected := make(chan string, 1)
	addr := startStreamApp(t, hub, "secret", func(_ context.Context, client *Client) {
		connected <- client.SessionID
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/stream/ws?token="+token.Token, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	select {
	case sid := <-connected:
		if sid != token.SessionID {
			t.Fatalf("expected session %q, got %q", token.SessionID, sid)
		}
	case <-time.After(time.Second):
		t.Fatalf("connect hook not called")
	}

	hub.Broadcast(token.SessionID, []byte("hello"))
	hub.Broadcast("someone-else", []byte("nope"))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(msg) != "hello" {
		t.Fatalf("unexpected message %q", msg)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
}

func TestStreamHandlersClientGone(t *testing.T) {
	token, _ := auth.NewService("secret").Issue()
	hub := NewHub(nil, nil)
	connected := make(chan struct{}, 1)
	addr := startStreamApp(t, hub, "secret", func(context.Context, *Client) { connected <- struct{}{} })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/stream/ws?token="+token.Token, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	<-connected
	conn.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.clients[token.SessionID])
		hub.mu.RUnlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client was not unregistered")
}
