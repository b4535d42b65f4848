package speech

import (
	"context"
	"strings"
	"time"
)

// Text is a Source fed with already transcribed lines, e.g. typed through
// echo-ctl. Each line counts as one utterance.
type Text struct {
	lines <-chan string
}

func NewText(lines <-chan string) *Text {
	return &Text{lines: lines}
}

func (t *Text) Capture(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ErrTimeout
	case line, ok := <-t.lines:
		if !ok {
			return "", ErrTimeout
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", ErrUnrecognized
		}
		return line, nil
	}
}
