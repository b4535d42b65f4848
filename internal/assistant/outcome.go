package assistant

import "echo/internal/history"

type Kind int

const (
	Spoken Kind = iota
	SpokenWithSideEffect
	Failed
)

func (k Kind) String() string {
	switch k {
	case Spoken:
		return "spoken"
	case SpokenWithSideEffect:
		return "spoken_with_side_effect"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type Fault int

const (
	NoFault Fault = iota
	ConfigFault
	SpeechIOFault
	NetworkFault
	LaunchFault
	UnhandledLoopFault
)

func (f Fault) String() string {
	switch f {
	case ConfigFault:
		return "config"
	case SpeechIOFault:
		return "speech_io"
	case NetworkFault:
		return "network"
	case LaunchFault:
		return "launch"
	case UnhandledLoopFault:
		return "unhandled_loop"
	default:
		return "none"
	}
}

// Outcome is what a handler decided: the reply to speak, the side effect it
// performed, or the fault that replaced it with an apology.
type Outcome struct {
	Kind      Kind
	Reply     string
	Emotion   history.Emotion
	Effect    string // human readable side effect, empty unless SpokenWithSideEffect
	Fault     Fault
	Err       error // logged, never spoken
	Terminate bool  // end the session after speaking
}

func spoken(reply string) Outcome {
	return Outcome{Kind: Spoken, Reply: reply}
}

func withEffect(reply, effect string) Outcome {
	return Outcome{Kind: SpokenWithSideEffect, Reply: reply, Effect: effect}
}

func failed(fault Fault, err error, apology string) Outcome {
	return Outcome{Kind: Failed, Reply: apology, Emotion: history.Sad, Fault: fault, Err: err}
}
