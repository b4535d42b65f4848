package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"echo/internal/history"
)

func newHub(t *testing.T) (string, <-chan Message) {
	t.Helper()

	got := make(chan Message, 8)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m Message
			if err := json.Unmarshal(data, &m); err == nil {
				got <- m
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), got
}

func TestHistoryEntriesReachHub(t *testing.T) {
	url, got := newHub(t)

	b, err := Dial(url, "echo")
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer b.Close()

	log := history.New(10)
	log.Observe(b.Observer())
	log.Append(history.User, "what time is it", history.NoEmotion)
	log.Append(history.Assistant, "Goodbye!", history.Happy)

	for _, want := range []Message{
		{From: "echo", To: "hub", Kind: "dialogue", Content: "what time is it", Speaker: "user"},
		{From: "echo", To: "hub", Kind: "dialogue", Content: "Goodbye!", Speaker: "assistant", Emotion: "happy"},
	} {
		select {
		case m := <-got:
			m.At = ""
			if m != want {
				t.Fatalf("expected %+v, got %+v", want, m)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("hub did not receive %q", want.Content)
		}
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := Dial("ws://127.0.0.1:1/ws", "echo"); err == nil {
		t.Fatalf("expected dial error")
	}
	if _, err := Dial("://bad", "echo"); err == nil {
		t.Fatalf("expected parse error")
	}
}
