package assistant

import (
	"context"
	log "log/slog"

	"echo/internal/history"
	"echo/internal/speech"
)

const (
	baseVolume    = 0.9
	emotionalRate = 20
)

func (a *Assistant) baseline() speech.Prosody {
	return speech.Prosody{Rate: a.settings.SpeechRate, Volume: baseVolume}
}

func (a *Assistant) prosodyFor(e history.Emotion) speech.Prosody {
	p := a.baseline()
	switch e {
	case history.Happy:
		p.Rate += emotionalRate
		p.Volume = 1.0
	case history.Sad:
		p.Rate -= emotionalRate
		p.Volume = 0.8
	}
	return p
}

// Prosody is the voice setting the next utterance starts from.
func (a *Assistant) Prosody() speech.Prosody { return a.voice }

// Speak says text with an optional emotion. The emotional voice lasts for
// this utterance only. Sink failures are logged, and nothing is recorded
// in history for speech that was never produced.
func (a *Assistant) Speak(ctx context.Context, text string, emotion history.Emotion) {
	a.voice = a.prosodyFor(emotion)
	defer func() { a.voice = a.baseline() }()

	log.Info("Speaking", "text", text, "emotion", emotion)

	if err := a.sink.Speak(ctx, text, a.voice); err != nil {
		log.Error("Speak failed", "fault", SpeechIOFault, "err", err)
		return
	}

	a.history.Append(history.Assistant, text, emotion)
}
