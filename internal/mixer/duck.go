package mixer

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	maxVolume      = 150
	restoreTimeout = 5 * time.Second
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type stream struct {
	ID      int
	Volume  int
	AppName string
}

type fade struct {
	id   int
	from int
	to   int
}

// Runner executes pactl. Swapped out in tests.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

func pactl(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "pactl", args...).Output()
}

// Ducker lowers the volume of every other PulseAudio/PipeWire stream while
// the assistant listens for a command, then restores it.
type Ducker struct {
	mu       sync.Mutex
	run      Runner
	ducked   bool
	selfApps []string    // application.name values left alone
	original map[int]int // sink-input id -> volume before ducking
	factor   float64
	floor    int
	duration time.Duration
}

func NewDucker(selfApps []string, factor float64, floor int, duration time.Duration) *Ducker {
	return &Ducker{
		run:      pactl,
		selfApps: append([]string(nil), selfApps...),
		original: make(map[int]int),
		factor:   factor,
		floor:    clamp(floor, 0, maxVolume),
		duration: duration,
	}
}

// Duck fades other streams to factor of their volume, never below floor.
func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ducked {
		return nil
	}

	streams, err := d.list(ctx)
	if err != nil {
		return err
	}

	d.original = make(map[int]int)

	var fades []fade
	for _, s := range streams {
		if d.isSelf(s) {
			continue
		}
		to := int(math.Round(float64(s.Volume) * d.factor))
		to = clamp(max(to, d.floor), 0, maxVolume)

		d.original[s.ID] = s.Volume
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: to})
	}

	// marked before fading so a partial fade can still be restored
	d.ducked = true
	return d.fade(ctx, fades)
}

// Restore fades ducked streams back. Streams that appeared after Duck are
// not touched. Cancellation of ctx is ignored so audio comes back on
// shutdown; restoreTimeout bounds the call instead.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ducked {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()

	streams, err := d.list(ctx)
	if err != nil {
		return err
	}

	var fades []fade
	for _, s := range streams {
		orig, ok := d.original[s.ID]
		if !ok || d.isSelf(s) {
			continue
		}
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.fade(ctx, fades); err != nil {
		return err
	}

	d.original = make(map[int]int)
	d.ducked = false
	return nil
}

func (d *Ducker) isSelf(s stream) bool {
	for _, name := range d.selfApps {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// fade steps every target towards its volume in 10ms increments.
func (d *Ducker) fade(ctx context.Context, fades []fade) error {
	if len(fades) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond

	steps := max(int(d.duration/minStep), 1)
	stepDur := d.duration / time.Duration(steps)
	if d.duration <= 0 {
		steps, stepDur = 1, 0
	}

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := d.setVolume(ctx, f.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", f.id, err)
			}
		}

		if i < steps {
			time.Sleep(stepDur)
		}
	}

	return nil
}

func (d *Ducker) list(ctx context.Context) ([]stream, error) {
	out, err := d.run(ctx, "list", "sink-inputs")
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func (d *Ducker) setVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clamp(percent, 0, maxVolume))
	_, err := d.run(ctx, "set-sink-input-volume", strconv.Itoa(id), arg)
	return err
}

// parseSinkInputs reads the output of `pactl list sink-inputs`.
func parseSinkInputs(text string) []stream {
	blocks := strings.Split(text, "Sink Input #")
	if len(blocks) <= 1 {
		return nil
	}

	var res []stream
	for _, block := range blocks[1:] {
		header, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}

		s := stream{ID: id}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) == 2 {
					s.Volume, _ = strconv.Atoi(m[1])
				}
			}

			// application.name = "Firefox"
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if _, rest, ok := strings.Cut(line, `"`); ok {
					s.AppName, _, _ = strings.Cut(rest, `"`)
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
