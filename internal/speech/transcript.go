package speech

import (
	"context"
	"regexp"
	"strings"
)

// Transcriber turns 16 kHz mono PCM into text. *stt.Transcriber satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

// whisper marks silence and noise with bracketed or parenthesized tags
var nonSpeechRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// cleanTranscript drops non-speech markers and collapses whitespace.
func cleanTranscript(text string) string {
	text = nonSpeechRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

func transcribe(ctx context.Context, tr Transcriber, pcm []float32) (string, error) {
	raw, err := tr.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}

	text := cleanTranscript(raw)
	if text == "" {
		return "", ErrUnrecognized
	}

	return text, nil
}
