package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		cmd  Command
		okay bool
	}{
		{Command{Op: OpColor, Value: "#ff0000"}, true},
		{Command{Op: OpColor, Value: "crimson"}, false},
		{Command{Op: OpReset}, true},
		{Command{Op: OpEnter}, true},
		{Command{Op: OpToggle, Panel: 2}, true},
		{Command{Op: OpToggle, Panel: -1}, false},
		{Command{Op: "explode"}, false},
	}
	for _, tt := range tests {
		if err := tt.cmd.Validate(); (err == nil) != tt.okay {
			t.Errorf("Validate(%+v) = %v", tt.cmd, err)
		}
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWebSocketRoundTrip(t *testing.T) {
	s := NewServer(4)
	s.Broadcast(State{Model: "model.glb", OpenPanel: -1, Section: "intro"})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	var initial State
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatal(err)
	}
	if initial.Model != "model.glb" || initial.OpenPanel != -1 {
		t.Errorf("initial state = %+v", initial)
	}

	if err := conn.WriteJSON(Command{Op: OpColor, Value: "#ff0000"}); err != nil {
		t.Fatal(err)
	}
	select {
	case cmd := <-s.Commands():
		if cmd.Op != OpColor || cmd.Value != "#ff0000" {
			t.Errorf("queued command = %+v", cmd)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command never queued")
	}

	s.Broadcast(State{Model: "model.glb", Color: "#ff0000", OpenPanel: 1, Section: "viewer", Camera: [3]float64{0, 1.2, 3}})
	var got State
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Color != "#ff0000" || got.OpenPanel != 1 || got.Camera[2] != 3 {
		t.Errorf("broadcast state = %+v", got)
	}
}

func TestWebSocketRejectsBadCommands(t *testing.T) {
	s := NewServer(1)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	conn := dial(t, srv)
	var initial State
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatal(err)
	}

	for _, msg := range []string{`{"op":"color","value":"nope"}`, `not json`, `{"op":"warp"}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
		var reply errorReply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatal(err)
		}
		if reply.Error == "" {
			t.Errorf("no error for %s", msg)
		}
	}
	select {
	case cmd := <-s.Commands():
		t.Errorf("invalid command queued: %+v", cmd)
	default:
	}
}

func TestStateEndpoint(t *testing.T) {
	s := NewServer(1)
	s.Broadcast(State{Model: "placeholder", Placeholder: true, OpenPanel: 0})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if !st.Placeholder || st.Model != "placeholder" {
		t.Errorf("state = %+v", st)
	}

	resp2, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("home page status %d", resp2.StatusCode)
	}
	resp3, err := http.Get(srv.URL + "/nothing")
	if err != nil {
		t.Fatal(err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status %d", resp3.StatusCode)
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	s := NewServer(1)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	conn := dial(t, srv)
	var initial State
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatal(err)
	}
	if s.Clients() != 1 {
		t.Fatalf("clients = %d", s.Clients())
	}
	s.Close()
	if s.Clients() != 0 {
		t.Errorf("clients after Close = %d", s.Clients())
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open")
	}
}
