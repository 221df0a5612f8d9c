package game

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsServer(t *testing.T, r *Room) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(r.HandleConnections))
	t.Cleanup(srv.Close)
	return srv
}

func wsDial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	return conn
}

func TestWebsocketWelcomeAndSnapshot(t *testing.T) {
	r := testRoom(t)
	go r.Run()
	t.Cleanup(r.Stop)

	conn := wsDial(t, wsServer(t, r), "?name=alice")

	// First frame is the welcome.
	var welcome WelcomeMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != "welcome" {
		t.Fatalf("first frame type = %q", welcome.Type)
	}
	if welcome.EntityID < 1 || welcome.EntityID > 10 {
		t.Fatalf("assigned entity id = %d", welcome.EntityID)
	}
	if welcome.TickRate != 30 || welcome.MapName != "arena" {
		t.Fatalf("welcome = %+v", welcome)
	}

	// An input must be acknowledged in a later snapshot's you block.
	input := `{"type":"input","seq":1,"moveX":0,"moveY":1,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":0}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(input)); err != nil {
		t.Fatalf("write input: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		if envelope.Type != "snapshot" {
			continue
		}
		var snap SnapshotMessage
		if err := json.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("bad snapshot: %v", err)
		}
		if len(snap.Entities) != 10 {
			t.Fatalf("snapshot carries %d entities", len(snap.Entities))
		}
		if snap.You.ID != welcome.EntityID {
			t.Fatalf("snapshot you.id = %d, want %d", snap.You.ID, welcome.EntityID)
		}
		if snap.You.LastProcessedSeq == 1 {
			return // input acknowledged
		}
	}
	t.Fatal("input was never acknowledged in a snapshot")
}

func TestWebsocketDisconnectFreesSlot(t *testing.T) {
	r := testRoom(t)
	go r.Run()
	t.Cleanup(r.Stop)

	conn := wsDial(t, wsServer(t, r), "")

	var welcome WelcomeMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if r.Stats().Players != 1 {
		t.Fatal("join did not register a player")
	}

	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if r.Stats().Players == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("slot was not released after disconnect")
}
