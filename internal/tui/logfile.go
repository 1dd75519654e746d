package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/asd977/FlexSimulate/internal/config"
)

const logFileName = "flexsim.log"

// redirectLogs points the default slog logger at <config-dir>/flexsim.log while the
// alternate screen owns the terminal. The returned func restores the previous logger.
func redirectLogs(level slog.Level) func() {
	prev := slog.Default()
	restore := func() { slog.SetDefault(prev) }

	var w io.Writer = io.Discard
	var f *os.File
	if dir, err := config.Dir(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err = os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				w = f
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	slog.Info("tui started", "pid", os.Getpid())

	return func() {
		restore()
		if f != nil {
			_ = f.Close()
		}
	}
}
