package logging

import (
	"io"
	log "log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps a flag value to a slog level. Unknown names mean info.
func Level(name string) log.Level {
	return levels[name]
}

// NewHandler writes colored lines to console and, when file is not nil,
// plain text lines to file.
func NewHandler(level log.Level, console, file io.Writer) log.Handler {
	handlers := []log.Handler{
		tint.NewHandler(console, &tint.Options{Level: level, TimeFormat: time.TimeOnly}),
	}
	if file != nil {
		handlers = append(handlers, log.NewTextHandler(file, &log.HandlerOptions{Level: level}))
	}
	return slogmulti.Fanout(handlers...)
}

// Setup installs the default logger. The returned func closes the log file.
// A log file that cannot be opened is reported and logging continues on the
// console.
func Setup(level, path string) func() {
	lvl := Level(level)

	if path == "" {
		log.SetDefault(log.New(NewHandler(lvl, os.Stdout, nil)))
		return func() {}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetDefault(log.New(NewHandler(lvl, os.Stdout, nil)))
		log.Warn("Log file unavailable, console only", "path", path, "err", err)
		return func() {}
	}

	log.SetDefault(log.New(NewHandler(lvl, os.Stdout, file)))
	return func() { file.Close() }
}
