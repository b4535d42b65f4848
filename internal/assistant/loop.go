package assistant

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"echo/internal/history"
	"echo/internal/nlu"
)

const handlerApology = "Sorry, I encountered an error processing that command."

// Handle classifies a command, runs its handler and speaks the result.
// Empty commands are ignored.
func (a *Assistant) Handle(ctx context.Context, command string) (Outcome, bool) {
	intent, ok := nlu.Classify(command)
	if !ok {
		return Outcome{}, false
	}

	u := nlu.Normalize(command)
	log.Info("Dispatching", "intent", intent, "text", u)

	out := a.dispatch(ctx, intent, u)

	switch out.Kind {
	case Failed:
		log.Error("Command failed", "intent", intent, "fault", out.Fault, "err", out.Err)
	case SpokenWithSideEffect:
		log.Info("Side effect", "intent", intent, "effect", out.Effect)
	}

	a.Speak(ctx, out.Reply, out.Emotion)

	if out.Terminate {
		a.running = false
	}

	return out, true
}

// dispatch runs the handler for intent. A panicking handler becomes a
// Failed outcome so the user still hears an apology.
func (a *Assistant) dispatch(ctx context.Context, intent nlu.Intent, u string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(UnhandledLoopFault, fmt.Errorf("panic: %v", r), handlerApology)
		}
	}()

	return a.handlers[intent](ctx, u)
}

// Run greets the user and serves commands until an exit command or ctx is
// done. A failing iteration is logged and the loop carries on.
func (a *Assistant) Run(ctx context.Context) error {
	a.Speak(ctx, fmt.Sprintf("Hello %s, how can I assist you today?", a.settings.Name), history.Happy)

	for a.running {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := a.idleDelay
		if err := a.iterate(ctx); err != nil {
			log.Error("Loop iteration failed", "fault", UnhandledLoopFault, "err", err)
			delay = a.errorDelay
		}

		if !a.running {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	log.Info("Session ended")
	return nil
}

func (a *Assistant) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	command, ok := a.Listen(ctx)
	if ok {
		a.Handle(ctx, command)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
