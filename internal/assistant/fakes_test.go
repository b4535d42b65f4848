package assistant

import (
	"context"
	"errors"
	"time"

	"echo/internal/config"
	"echo/internal/speech"
	"echo/internal/weather"
)

type captured struct {
	text string
	err  error
}

type fakeSource struct {
	script   []captured
	calls    int
	timeouts []time.Duration
	onEmpty  func()
}

func (f *fakeSource) Capture(_ context.Context, timeout time.Duration) (string, error) {
	f.calls++
	f.timeouts = append(f.timeouts, timeout)
	if len(f.script) == 0 {
		if f.onEmpty != nil {
			f.onEmpty()
		}
		return "", speech.ErrTimeout
	}
	c := f.script[0]
	f.script = f.script[1:]
	return c.text, c.err
}

type utterance struct {
	text    string
	prosody speech.Prosody
}

type fakeSink struct {
	said    []utterance
	failOn  string
	panicOn string
}

func (f *fakeSink) Speak(_ context.Context, text string, p speech.Prosody) error {
	if f.panicOn != "" && text == f.panicOn {
		panic("sink exploded")
	}
	f.said = append(f.said, utterance{text: text, prosody: p})
	if f.failOn != "" && text == f.failOn {
		return errors.New("audio device lost")
	}
	return nil
}

func (f *fakeSink) texts() []string {
	out := make([]string, len(f.said))
	for i, u := range f.said {
		out[i] = u.text
	}
	return out
}

func (f *fakeSink) last() string {
	if len(f.said) == 0 {
		return ""
	}
	return f.said[len(f.said)-1].text
}

type fakeWeather struct {
	report    weather.Report
	err       error
	calls     int
	locations []string
}

func (f *fakeWeather) Current(_ context.Context, location string) (weather.Report, error) {
	f.calls++
	f.locations = append(f.locations, location)
	if f.err != nil {
		return weather.Report{}, f.err
	}
	r := f.report
	r.Location = location
	return r, nil
}

type fakeLauncher struct {
	urls      []string
	editors   int
	urlErr    error
	editorErr error
}

func (f *fakeLauncher) OpenURL(url string) error {
	f.urls = append(f.urls, url)
	return f.urlErr
}

func (f *fakeLauncher) OpenEditor(context.Context) error {
	f.editors++
	return f.editorErr
}

type fakeCue struct {
	events []string
}

func (f *fakeCue) Start(context.Context) { f.events = append(f.events, "start") }
func (f *fakeCue) Stop(context.Context)  { f.events = append(f.events, "stop") }

type rig struct {
	a        *Assistant
	source   *fakeSource
	sink     *fakeSink
	weather  *fakeWeather
	launcher *fakeLauncher
	cue      *fakeCue
}

func newRig(mutate func(*config.Settings)) *rig {
	s := config.Defaults()
	s.WeatherAPIKey = "key"
	if mutate != nil {
		mutate(&s)
	}

	r := &rig{
		source:   &fakeSource{},
		sink:     &fakeSink{},
		weather:  &fakeWeather{},
		launcher: &fakeLauncher{},
		cue:      &fakeCue{},
	}
	r.a = New(s, Deps{
		Source:   r.source,
		Sink:     r.sink,
		Weather:  r.weather,
		Launcher: r.launcher,
		Cue:      r.cue,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC) },
		Pick:     func(int) int { return 1 },
	})
	r.a.idleDelay = 0
	r.a.errorDelay = 0
	return r
}
