package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	"echo/internal/assistant"
	"echo/internal/audio"
	"echo/internal/bus"
	"echo/internal/config"
	"echo/internal/history"
	"echo/internal/ipc"
	"echo/internal/launch"
	"echo/internal/logging"
	"echo/internal/mixer"
	"echo/internal/notify"
	"echo/internal/proxy"
	"echo/internal/speech"
	"echo/internal/tts"
	"echo/internal/weather"
	"echo/pkg/audioconv"
	"echo/pkg/stt"
)

type flags struct {
	env        *string
	config     *string
	logLevel   *string
	logFile    *string
	proxyAddr  *string
	model      *string
	language   *string
	input      *string
	replay     *string
	socket     *string
	busURL     *string
	chime      *string
	duck       *bool
	weatherURL *string
}

func parseFlags() flags {
	f := flags{
		env:        cli.StringP("env", "e", ".env", "Env file path"),
		config:     cli.StringP("config", "c", "echo_config.json", "Settings file"),
		logLevel:   cli.StringP("log", "l", "info", "Log level"),
		logFile:    cli.String("log-file", "echo_assistant.log", "Log file, empty to disable"),
		proxyAddr:  cli.StringP("proxy", "p", "", "Socks proxy address for web requests"),
		model:      cli.StringP("model", "m", "models/ggml-base.en.bin", "Whisper model"),
		language:   cli.String("language", "en", "Transcription language"),
		input:      cli.StringP("input", "i", "mic", "Speech input: mic or ipc"),
		replay:     cli.String("replay", "", "Directory of recorded utterances to replay instead of the mic"),
		socket:     cli.String("socket", ipc.DefaultSocketPath, "Control socket for --input ipc"),
		busURL:     cli.String("bus", "", "Websocket hub to mirror the dialogue to"),
		chime:      cli.String("chime", "", "mp3 played before a command is captured"),
		duck:       cli.Bool("duck", false, "Lower other audio while a command is captured"),
		weatherURL: cli.String("weather-url", weather.DefaultBaseURL, "Weather API base url"),
	}
	cli.Parse()
	return f
}

func main() {
	os.Exit(run(parseFlags()))
}

func run(f flags) int {
	closeLog := logging.Setup(*f.logLevel, *f.logFile)
	defer closeLog()

	log.Info("Booting up")

	if err := godotenv.Load(*f.env); err != nil {
		log.Debug("No env file", "path", *f.env, "err", err)
	}

	settings, err := config.Load(*f.config)
	if err != nil {
		log.Error("Config load error, using defaults", "fault", assistant.ConfigFault, "err", err)
	}
	settings.ApplyEnv()

	sink, err := tts.NewEspeak(settings.VoiceID)
	if err != nil {
		log.Error("Failed to init speech engine", "err", err)
		return 1
	}
	defer sink.Close()

	log.Debug("Loaded speech engine")

	source, closeSource, err := openSource(f, settings)
	if err != nil {
		log.Error("Failed to init speech input", "input", *f.input, "err", err)
		return 1
	}
	defer closeSource()

	httpClient, err := proxy.NewClient(*f.proxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *f.proxyAddr, "err", err)
		return 1
	}

	hist := history.New(settings.MaxHistory)
	if *f.busURL != "" {
		b, err := bus.Dial(*f.busURL, "echo")
		if err != nil {
			log.Warn("Bus unavailable, continuing without it", "url", *f.busURL, "err", err)
		} else {
			defer b.Close()
			hist.Observe(b.Observer())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := assistant.New(settings, assistant.Deps{
		Source:   source,
		Sink:     sink,
		Weather:  weather.NewClient(httpClient, *f.weatherURL, settings.WeatherAPIKey),
		Launcher: launch.New(settings.Editor),
		Cue:      newCue(*f.chime, *f.duck),
		History:  hist,
	})

	log.Info("Boot up - successful", "name", settings.Name, "hotword", settings.Hotword)

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Assistant stopped", "err", err)
		return 1
	}

	return 0
}

func openSource(f flags, s config.Settings) (speech.Source, func(), error) {
	if *f.input == "ipc" && *f.replay == "" {
		lines := make(chan string, 16)
		srv, err := ipc.StartServer(*f.socket, func(msg ipc.ControlMessage) {
			if msg.Cmd != ipc.CmdSay {
				log.Warn("Unknown command", "cmd", msg.Cmd)
				return
			}
			select {
			case lines <- msg.Text:
			default:
				log.Warn("Dropping typed utterance, assistant busy", "text", msg.Text)
			}
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("Waiting for typed utterances", "socket", *f.socket)
		return speech.NewText(lines), func() { srv.Close() }, nil
	}

	whisper, err := stt.NewTranscriber(*f.model, stt.Options{
		Language:      *f.language,
		InitialPrompt: s.Hotword,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Debug("Loaded whisper")

	if *f.replay != "" {
		decode := func(ctx context.Context, path string) ([]float32, error) {
			return audioconv.DecodeFile(ctx, path, audioconv.Options{})
		}
		r, err := speech.NewReplay(*f.replay, whisper, decode)
		if err != nil {
			whisper.Close()
			return nil, nil, err
		}
		log.Info("Replaying utterances", "dir", *f.replay, "files", r.Remaining())
		return r, func() { whisper.Close() }, nil
	}

	rec := audio.NewRecorder(audio.DefaultRecorderConfig())
	if err := rec.Init(); err != nil {
		whisper.Close()
		return nil, nil, err
	}

	log.Debug("Loaded recorder")

	return speech.NewMic(rec, whisper), func() {
		rec.Close()
		whisper.Close()
	}, nil
}

func newCue(chimePath string, duck bool) assistant.Cue {
	var (
		player notify.Player
		ducker notify.Ducker
	)

	if chimePath != "" {
		c, err := notify.NewChime(chimePath)
		if err != nil {
			log.Warn("Chime disabled", "err", err)
		} else {
			player = c
		}
	}
	if duck {
		ducker = mixer.NewDucker([]string{"echo", "espeak-ng"}, 0.3, 5, 150*time.Millisecond)
	}

	if player == nil && ducker == nil {
		return nil
	}
	return notify.NewCue(player, ducker)
}
