package speech

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var replayExts = map[string]bool{
	".wav": true, ".mp3": true, ".ogg": true, ".oga": true, ".opus": true,
}

// DecodeFunc loads an audio file as 16 kHz mono PCM.
type DecodeFunc func(ctx context.Context, path string) ([]float32, error)

// Replay plays back recorded utterances from a directory, one file per
// capture in lexical order. Once exhausted every capture times out.
type Replay struct {
	files  []string
	next   int
	tr     Transcriber
	decode DecodeFunc
}

func NewReplay(dir string, tr Transcriber, decode DecodeFunc) (*Replay, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !replayExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return &Replay{files: files, tr: tr, decode: decode}, nil
}

func (r *Replay) Remaining() int { return len(r.files) - r.next }

func (r *Replay) Capture(ctx context.Context, timeout time.Duration) (string, error) {
	if r.next >= len(r.files) {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", ErrTimeout
		}
	}

	path := r.files[r.next]
	r.next++

	pcm, err := r.decode(ctx, path)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	text, err := transcribe(ctx, r.tr, pcm)
	if err != nil {
		return "", err
	}

	log.Debug("Replayed", "file", filepath.Base(path), "text", text)
	return text, nil
}
