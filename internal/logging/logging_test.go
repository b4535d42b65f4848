package logging

import (
	"bytes"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandlerFansOutToConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}

	var console bytes.Buffer
	logger := log.New(NewHandler(Level("info"), &console, file))
	logger.Info("Dispatching", "intent", "time")
	logger.Debug("Listening for wake word")
	file.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for name, out := range map[string]string{"file": string(data), "console": console.String()} {
		if !strings.Contains(out, "Dispatching") || !strings.Contains(out, "time") {
			t.Fatalf("%s missing info line: %q", name, out)
		}
		if strings.Contains(out, "Listening for wake word") {
			t.Fatalf("%s got a debug line at info level: %q", name, out)
		}
	}
	if !strings.Contains(string(data), "level=INFO") {
		t.Fatalf("file should hold plain text records: %q", data)
	}
}

func TestLevel(t *testing.T) {
	if Level("debug") != log.LevelDebug || Level("error") != log.LevelError {
		t.Fatalf("unexpected level mapping")
	}
	if Level("bogus") != log.LevelInfo {
		t.Fatalf("unknown names should mean info")
	}
}
