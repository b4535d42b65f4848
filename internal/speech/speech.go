package speech

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimeout means nothing was said before the capture timeout.
	ErrTimeout = errors.New("speech: capture timed out")
	// ErrUnrecognized means audio was captured but yielded no words.
	ErrUnrecognized = errors.New("speech: unrecognized")
)

// Source captures one utterance and returns its transcript.
type Source interface {
	Capture(ctx context.Context, timeout time.Duration) (string, error)
}

// Prosody is the voice setting for a single utterance.
type Prosody struct {
	Rate   int     // words per minute
	Volume float64 // 0.0 - 1.0
}

// Sink turns text into audible speech, blocking until playback ends.
type Sink interface {
	Speak(ctx context.Context, text string, p Prosody) error
}

// Quiet reports whether err is an expected "nobody spoke" outcome.
func Quiet(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnrecognized)
}
