package audio

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"

	"echo/internal/speech"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms
	frameMs    = 1000 * frameSize / sampleRate
)

type RecorderConfig struct {
	SilenceRMS float64       // frames below this level count as silence
	Trailing   time.Duration // silence that ends an utterance
	MaxLength  time.Duration // hard cap on one utterance
}

func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SilenceRMS: 0.015,
		Trailing:   800 * time.Millisecond,
		MaxLength:  15 * time.Second,
	}
}

// Recorder captures single utterances from the default input device.
type Recorder struct {
	cfg RecorderConfig
}

func NewRecorder(cfg RecorderConfig) *Recorder { return &Recorder{cfg: cfg} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record waits up to timeout for speech to start, then records until a
// stretch of trailing silence or MaxLength. It returns speech.ErrTimeout
// when nobody spoke.
func (r *Recorder) Record(ctx context.Context, timeout time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		gate      = newSpeechGate(r.cfg)
		waitLimit = int(timeout.Milliseconds() / frameMs)
		maxFrames = int(r.cfg.MaxLength.Milliseconds() / frameMs)
	)

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		keep, done := gate.push(frameRMS(buf))
		if keep {
			out = append(out, buf...)
		}
		if done {
			break
		}
		if !gate.speaking && i >= waitLimit {
			return nil, speech.ErrTimeout
		}
		if gate.speaking && gate.frames >= maxFrames {
			break
		}
	}

	return out, nil
}

// speechGate tracks whether an utterance has started and when it ends.
type speechGate struct {
	threshold     float64
	trailFrames   int
	speaking      bool
	silenceFrames int
	frames        int
}

func newSpeechGate(cfg RecorderConfig) *speechGate {
	trail := int(cfg.Trailing.Milliseconds() / frameMs)
	if trail < 1 {
		trail = 1
	}
	return &speechGate{threshold: cfg.SilenceRMS, trailFrames: trail}
}

// push feeds one frame level; keep reports whether the frame belongs to the
// utterance, done whether the utterance has ended.
func (g *speechGate) push(rms float64) (keep, done bool) {
	if rms > g.threshold {
		g.speaking = true
		g.silenceFrames = 0
		g.frames++
		return true, false
	}

	if !g.speaking {
		return false, false
	}

	g.frames++
	g.silenceFrames++
	if g.silenceFrames >= g.trailFrames {
		return false, true
	}
	return true, false
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
