package bus

import (
	"encoding/json"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"echo/internal/history"
)

const writeWait = 2 * time.Second

// Message is the hub envelope.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Speaker string `json:"speaker,omitempty"`
	Emotion string `json:"emotion,omitempty"`
	At      string `json:"at,omitempty"`
}

// Bus mirrors dialogue lines to a websocket hub so other shards can follow
// the conversation. It is write-only.
type Bus struct {
	mu   sync.Mutex
	conn *websocket.Conn
	from string
}

func Dial(wsURL, from string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", wsURL)
	return &Bus{conn: conn, from: from}, nil
}

func (b *Bus) Write(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

// Publish sends one history entry as a "dialogue" message.
func (b *Bus) Publish(e history.Entry) error {
	return b.Write(&Message{
		From:    b.from,
		To:      "hub",
		Kind:    "dialogue",
		Content: e.Text,
		Speaker: string(e.Speaker),
		Emotion: string(e.Emotion),
		At:      e.Time.Format(time.RFC3339),
	})
}

// Observer adapts Publish for history.Log.Observe. Failures are logged so
// a dead hub never disturbs the conversation.
func (b *Bus) Observer() func(history.Entry) {
	return func(e history.Entry) {
		if err := b.Publish(e); err != nil {
			log.Warn("Failed to publish to bus", "err", err)
		}
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return b.conn.Close()
}
