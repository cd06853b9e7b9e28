package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"market-chat-service/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub(time.Second)

	hub.Add(1, nil, "s1")
	if len(hub.rooms) != 1 {
		t.Fatalf("expected room to be created")
	}

	hub.Remove(1, nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected room to be removed")
	}
}

func TestHubRemoveUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub(time.Second)

	hub.Remove(42, nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected hub to stay empty")
	}
}

func TestHubWriterLockIsStablePerConnection(t *testing.T) {
	hub := NewHub(time.Second)
	hub.Add(1, nil, "s1")

	if hub.writerLock(nil) != hub.writerLock(nil) {
		t.Fatalf("expected a single writer lock per connection")
	}

	hub.Remove(1, nil)
	if _, ok := hub.writers[nil]; ok {
		t.Fatalf("expected writer lock to be dropped with the connection")
	}
}

// Broadcasts come from the broker-consumer goroutine while error frames come
// from the connection's own read loop. Without per-connection write
// serialization gorilla panics on the concurrent writes.
func TestHubConcurrentBroadcastAndErrorWrites(t *testing.T) {
	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		conns <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	serverConn := <-conns
	defer serverConn.Close()

	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hub := NewHub(time.Second)
	hub.Add(7, serverConn, "s1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast(7, models.Message{SenderID: 1, ChatroomID: 7, Content: "x"})
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.WriteError(serverConn, "send failed")
			}
		}()
	}
	wg.Wait()

	hub.Remove(7, serverConn)
}
