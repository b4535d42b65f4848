package history

import "time"

type Speaker string

const (
	User      Speaker = "user"
	Assistant Speaker = "assistant"
)

type Emotion string

const (
	NoEmotion Emotion = ""
	Happy     Emotion = "happy"
	Sad       Emotion = "sad"
	Neutral   Emotion = "neutral"
)

type Entry struct {
	Time    time.Time `json:"timestamp"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	Emotion Emotion   `json:"emotion,omitempty"`
}

// Log is a bounded, append-only record of the dialogue. When it grows past
// its limit the oldest entries are dropped. It is not safe for concurrent
// use; the dispatch loop is its only writer.
type Log struct {
	limit     int
	entries   []Entry
	observers []func(Entry)
	now       func() time.Time
}

func New(limit int) *Log {
	if limit <= 0 {
		limit = 1
	}
	return &Log{
		limit: limit,
		now:   time.Now,
	}
}

// Observe registers f to be called after every append.
func (l *Log) Observe(f func(Entry)) {
	l.observers = append(l.observers, f)
}

func (l *Log) Append(speaker Speaker, text string, emotion Emotion) Entry {
	e := Entry{
		Time:    l.now(),
		Speaker: speaker,
		Text:    text,
		Emotion: emotion,
	}

	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.limit; over > 0 {
		// copy so the backing array does not keep growing
		l.entries = append([]Entry(nil), l.entries[over:]...)
	}

	for _, f := range l.observers {
		f(e)
	}

	return e
}

func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
