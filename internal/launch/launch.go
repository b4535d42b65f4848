package launch

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os/exec"
	"strings"

	"github.com/pkg/browser"
)

// Launcher opens the default browser and a local text editor.
type Launcher struct {
	editor  []string
	openURL func(url string) error
	start   func(ctx context.Context, name string, args ...string) error
}

// New takes the editor as a command line, e.g. "gedit" or "open -a TextEdit".
func New(editor string) *Launcher {
	return &Launcher{
		editor:  strings.Fields(editor),
		openURL: browser.OpenURL,
		start:   startDetached,
	}
}

func (l *Launcher) OpenURL(url string) error {
	if err := l.openURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// OpenEditor starts the editor and returns without waiting for it to close.
func (l *Launcher) OpenEditor(ctx context.Context) error {
	if len(l.editor) == 0 {
		return errors.New("no editor configured")
	}
	if err := l.start(ctx, l.editor[0], l.editor[1:]...); err != nil {
		return fmt.Errorf("start %s: %w", l.editor[0], err)
	}
	return nil
}

func startDetached(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Warn("Editor exited", "cmd", name, "err", err)
		}
	}()

	return nil
}
