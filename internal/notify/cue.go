package notify

import (
	"context"
	log "log/slog"
)

type Player interface {
	Play() error
}

// Ducker is satisfied by *mixer.Ducker.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

// Cue signals that the assistant is now taking a command: it plays a chime
// and lowers other audio until the capture ends. Either part may be nil.
type Cue struct {
	chime  Player
	ducker Ducker
}

func NewCue(chime Player, ducker Ducker) *Cue {
	return &Cue{chime: chime, ducker: ducker}
}

func (c *Cue) Start(ctx context.Context) {
	if c.chime != nil {
		if err := c.chime.Play(); err != nil {
			log.Warn("Failed to play chime", "err", err)
		}
	}
	if c.ducker != nil {
		if err := c.ducker.Duck(ctx); err != nil {
			log.Warn("Failed to duck other audio", "err", err)
		}
	}
}

func (c *Cue) Stop(ctx context.Context) {
	if c.ducker == nil {
		return
	}
	if err := c.ducker.Restore(ctx); err != nil {
		log.Warn("Failed to restore other audio", "err", err)
	}
}
