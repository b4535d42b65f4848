package assistant

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"echo/internal/history"
	"echo/internal/nlu"
	"echo/internal/speech"
)

// Listen waits for the wake word, acknowledges it and captures the command
// as a second, separate utterance. ok is false when there is no command.
func (a *Assistant) Listen(ctx context.Context) (command string, ok bool) {
	log.Debug("Listening for wake word", "hotword", a.settings.Hotword)

	heard, ok := a.capture(ctx, a.settings.ListenWait())
	if !ok {
		return "", false
	}
	if !strings.Contains(heard, a.settings.Hotword) {
		log.Debug("Ignoring utterance without wake word", "text", heard)
		return "", false
	}

	ack := a.settings.WakeResponses[a.pick(len(a.settings.WakeResponses))]
	a.Speak(ctx, ack, history.NoEmotion)

	if a.cue != nil {
		a.cue.Start(ctx)
		defer a.cue.Stop(ctx)
	}

	command, ok = a.capture(ctx, a.settings.CommandWait())
	if !ok {
		return "", false
	}

	log.Info("Heard command", "text", command)
	a.history.Append(history.User, command, history.NoEmotion)

	return command, true
}

func (a *Assistant) capture(ctx context.Context, timeout time.Duration) (string, bool) {
	text, err := a.source.Capture(ctx, timeout)
	if err != nil {
		if !speech.Quiet(err) && ctx.Err() == nil {
			log.Error("Listen failed", "fault", SpeechIOFault, "err", err)
		}
		return "", false
	}

	text = nlu.Normalize(text)
	return text, text != ""
}
