package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(Options{FrameRate: 60, MaxSessions: 2}, newTestMap, discardLogger())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Sessions != 0 {
		t.Errorf("health = %+v", body)
	}
}

func TestFrameUnknownSession(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/sessions/nope/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestWebSocketSession(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	welcome := readMessage(t, ctx, conn, TypeWelcome)
	var hello map[string]string
	if err := json.Unmarshal(welcome.Payload, &hello); err != nil {
		t.Fatal(err)
	}
	id := hello["sessionId"]
	if id == "" || welcome.SessionID != id {
		t.Fatalf("welcome = %+v", welcome)
	}
	if srv.count() != 1 {
		t.Errorf("sessions = %d, want 1", srv.count())
	}

	resize, _ := json.Marshal(Message{Type: TypeResize, Payload: json.RawMessage(`{"width": 32, "height": 24, "ratio": 1}`)})
	if err := conn.Write(ctx, websocket.MessageText, resize); err != nil {
		t.Fatal(err)
	}
	frame := readMessage(t, ctx, conn, TypeFrame)
	var fp FramePayload
	if err := json.Unmarshal(frame.Payload, &fp); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(ts.URL + fp.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("frame status = %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	bad, _ := json.Marshal(Message{Type: "explode"})
	if err := conn.Write(ctx, websocket.MessageText, bad); err != nil {
		t.Fatal(err)
	}
	readMessage(t, ctx, conn, TypeError)
}

func TestSessionLimit(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.mu.Lock()
	srv.sessions["a"] = &Session{ID: "a"}
	srv.sessions["b"] = &Session{ID: "b"}
	srv.mu.Unlock()

	resp, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/sessions")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Sessions []string `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Sessions) != 2 || body.Sessions[0] != "a" {
		t.Errorf("sessions = %v, want [a b]", body.Sessions)
	}
}
