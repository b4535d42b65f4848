package speech

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

// Recorder captures one utterance from a microphone. It returns ErrTimeout
// when nobody starts speaking within timeout. *audio.Recorder satisfies it.
type Recorder interface {
	Record(ctx context.Context, timeout time.Duration) ([]float32, error)
}

// Mic captures from an input device and transcribes the recording.
type Mic struct {
	rec Recorder
	tr  Transcriber
}

func NewMic(rec Recorder, tr Transcriber) *Mic {
	return &Mic{rec: rec, tr: tr}
}

func (m *Mic) Capture(ctx context.Context, timeout time.Duration) (string, error) {
	pcm, err := m.rec.Record(ctx, timeout)
	if errors.Is(err, ErrTimeout) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}

	log.Debug("Recorded", "samples", len(pcm))

	text, err := transcribe(ctx, m.tr, pcm)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	log.Debug("Transcribed", "text", text)
	return text, nil
}
