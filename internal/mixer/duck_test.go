package mixer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sinkInputs = `Sink Input #41
	Driver: PipeWire
	Volume: front-left: 52429 /  80% / -5.81 dB,   front-right: 52429 /  80% / -5.81 dB
	Properties:
		application.name = "Firefox"
Sink Input #57
	Volume: front-left: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "echo"
Sink Input #oops
	Volume: 10%
`

type fakePactl struct {
	listing string
	listErr error
	failID  string
	sets    []string
}

func (f *fakePactl) run(ctx context.Context, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args[0] == "list" {
		return []byte(f.listing), f.listErr
	}
	if args[1] == f.failID {
		return nil, errors.New("stream gone")
	}
	f.sets = append(f.sets, strings.Join(args[1:], " "))
	return nil, nil
}

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(sinkInputs)
	if len(got) != 2 {
		t.Fatalf("expected 2 streams, got %+v", got)
	}
	if got[0] != (stream{ID: 41, Volume: 80, AppName: "Firefox"}) {
		t.Fatalf("unexpected first stream: %+v", got[0])
	}
	if got[1] != (stream{ID: 57, Volume: 100, AppName: "echo"}) {
		t.Fatalf("unexpected second stream: %+v", got[1])
	}
	if parseSinkInputs("") != nil {
		t.Fatalf("expected no streams for empty listing")
	}
}

func TestDuckAndRestoreSkipsSelf(t *testing.T) {
	fake := &fakePactl{listing: sinkInputs}
	d := NewDucker([]string{"echo"}, 0.25, 10, 0)
	d.run = fake.run

	if err := d.Duck(context.Background()); err != nil {
		t.Fatalf("duck failed: %v", err)
	}
	if len(fake.sets) != 1 || fake.sets[0] != "41 20%" {
		t.Fatalf("unexpected volume changes: %v", fake.sets)
	}

	// second duck is a no-op
	if err := d.Duck(context.Background()); err != nil || len(fake.sets) != 1 {
		t.Fatalf("duck must be idempotent: %v %v", err, fake.sets)
	}

	fake.listing = strings.Replace(sinkInputs, "80%", "20%", 1)
	if err := d.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(fake.sets) != 2 || fake.sets[1] != "41 80%" {
		t.Fatalf("unexpected restore: %v", fake.sets)
	}
}

func TestDuckRespectsFloor(t *testing.T) {
	fake := &fakePactl{listing: sinkInputs}
	d := NewDucker(nil, 0.01, 30, 0)
	d.run = fake.run

	if err := d.Duck(context.Background()); err != nil {
		t.Fatalf("duck failed: %v", err)
	}
	if len(fake.sets) != 2 || fake.sets[0] != "41 30%" || fake.sets[1] != "57 30%" {
		t.Fatalf("floor not applied: %v", fake.sets)
	}
}

func TestDuckListFailure(t *testing.T) {
	fake := &fakePactl{listErr: errors.New("pactl missing")}
	d := NewDucker(nil, 0.5, 0, 0)
	d.run = fake.run

	if err := d.Duck(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if err := d.Restore(context.Background()); err != nil {
		t.Fatalf("restore without duck should be a no-op, got %v", err)
	}
}

func TestRestoreAfterPartialDuck(t *testing.T) {
	fake := &fakePactl{listing: sinkInputs, failID: "57"}
	d := NewDucker(nil, 0.25, 0, 0)
	d.run = fake.run

	if err := d.Duck(context.Background()); err == nil {
		t.Fatalf("expected duck to fail on stream 57")
	}
	if len(fake.sets) != 1 || fake.sets[0] != "41 20%" {
		t.Fatalf("unexpected volume changes: %v", fake.sets)
	}

	fake.failID = ""
	fake.listing = strings.Replace(sinkInputs, "80%", "20%", 1)
	if err := d.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(fake.sets) != 3 || fake.sets[1] != "41 80%" || fake.sets[2] != "57 100%" {
		t.Fatalf("lowered stream not restored: %v", fake.sets)
	}
}

func TestRestoreIgnoresCancellation(t *testing.T) {
	fake := &fakePactl{listing: sinkInputs}
	d := NewDucker([]string{"echo"}, 0.25, 0, 0)
	d.run = fake.run

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Duck(ctx); err != nil {
		t.Fatalf("duck failed: %v", err)
	}
	cancel()

	fake.listing = strings.Replace(sinkInputs, "80%", "20%", 1)
	if err := d.Restore(ctx); err != nil {
		t.Fatalf("restore failed after cancel: %v", err)
	}
	if len(fake.sets) != 2 || fake.sets[1] != "41 80%" {
		t.Fatalf("unexpected restore: %v", fake.sets)
	}

	// a later duck starts from scratch
	fake.listing = sinkInputs
	if err := d.Duck(context.Background()); err != nil || len(fake.sets) != 3 {
		t.Fatalf("expected a fresh duck: %v %v", err, fake.sets)
	}
}
