package assistant

import (
	"context"
	"math/rand/v2"
	"time"

	"echo/internal/config"
	"echo/internal/history"
	"echo/internal/nlu"
	"echo/internal/speech"
	"echo/internal/weather"
)

const (
	idleDelay  = 100 * time.Millisecond
	errorDelay = time.Second
)

// Weather fetches current conditions. *weather.Client satisfies it.
type Weather interface {
	Current(ctx context.Context, location string) (weather.Report, error)
}

// Launcher opens applications. *launch.Launcher satisfies it.
type Launcher interface {
	OpenURL(url string) error
	OpenEditor(ctx context.Context) error
}

// Cue runs around the command capture, e.g. a chime and lowering other
// audio. Failures are its own business.
type Cue interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type Deps struct {
	Source   speech.Source
	Sink     speech.Sink
	Launcher Launcher

	// Weather may be nil, which behaves like a missing API key.
	Weather Weather
	// Cue is optional.
	Cue Cue
	// History is sized from the settings when nil.
	History *history.Log

	Now func() time.Time
	// Pick chooses a wake response index; defaults to rand.IntN.
	Pick func(n int) int
}

type handler func(ctx context.Context, utterance string) Outcome

// Assistant is the session context: settings, collaborators and the
// running flag, all owned by the goroutine that calls Run.
type Assistant struct {
	settings config.Settings
	source   speech.Source
	sink     speech.Sink
	weather  Weather
	launcher Launcher
	cue      Cue
	history  *history.Log
	now      func() time.Time
	pick     func(n int) int

	handlers map[nlu.Intent]handler
	voice    speech.Prosody
	running  bool

	idleDelay  time.Duration
	errorDelay time.Duration
}

func New(settings config.Settings, deps Deps) *Assistant {
	settings.Normalize()

	a := &Assistant{
		settings:   settings,
		source:     deps.Source,
		sink:       deps.Sink,
		weather:    deps.Weather,
		launcher:   deps.Launcher,
		cue:        deps.Cue,
		history:    deps.History,
		now:        deps.Now,
		pick:       deps.Pick,
		running:    true,
		idleDelay:  idleDelay,
		errorDelay: errorDelay,
	}

	if a.history == nil {
		a.history = history.New(settings.MaxHistory)
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.pick == nil {
		a.pick = rand.IntN
	}
	a.voice = a.baseline()

	a.handlers = map[nlu.Intent]handler{
		nlu.Search:  a.handleSearch,
		nlu.Time:    a.handleTime,
		nlu.Weather: a.handleWeather,
		nlu.Open:    a.handleOpen,
		nlu.Exit:    a.handleExit,
		nlu.Unknown: a.handleUnknown,
	}

	return a
}

func (a *Assistant) History() *history.Log { return a.history }

func (a *Assistant) Running() bool { return a.running }
