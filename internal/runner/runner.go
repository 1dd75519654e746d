// Package runner executes a model's run script and reports what it produced.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/asd977/FlexSimulate/internal/config"
	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
)

var ErrNoScript = errors.New("model has no run script")

// Result is the "calculation finished" event of one run.
type Result struct {
	ModelID  string        `json:"modelId"`
	Script   string        `json:"script"`
	ExitCode int           `json:"exitCode"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration"`
	// Artifact is the newest file matching the artifact pattern after the run, if any.
	Artifact string `json:"artifact,omitempty"`
}

func (r Result) OK() bool { return r.ExitCode == 0 }

// ScriptFor returns the model's script, falling back to the first file in its directory that
// matches the script pattern.
func ScriptFor(m model.Model, settings config.Settings) (string, bool) {
	if s := strings.TrimSpace(m.ScriptPath); s != "" {
		return s, true
	}
	return fsutil.FirstMatch(m.Directory, settings.ScriptPattern)
}

// Command builds the interpreter invocation for script.
func Command(ctx context.Context, script string, settings config.Settings) *exec.Cmd {
	var argv []string
	switch {
	case len(settings.ScriptShell) > 0:
		argv = append(append(argv, settings.ScriptShell...), script)
	case runtime.GOOS == "windows":
		argv = []string{"cmd", "/c", script}
	default:
		argv = []string{"sh", script}
	}
	return exec.CommandContext(ctx, argv[0], argv[1:]...)
}

// Run executes the model's script in the model directory and blocks until it exits. A script
// that runs and fails is not an error: its exit code is in the Result. Errors mean the script
// could not be started (or ctx ended it).
func Run(ctx context.Context, m model.Model, settings config.Settings) (Result, error) {
	res := Result{ModelID: m.ID}
	script, ok := ScriptFor(m, settings)
	if !ok {
		return res, fmt.Errorf("%s: %w", m.Name, ErrNoScript)
	}
	res.Script = script

	cmd := Command(ctx, script, settings)
	cmd.Dir = m.Directory

	slog.Info("running model", "model", m.ID, "script", script)
	start := time.Now()
	out, err := cmd.CombinedOutput()
	res.Duration = time.Since(start)
	res.Output = string(out)

	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("run %s: %w", script, ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("run %s: %w", script, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if a, ok := fsutil.LatestMatch(m.Directory, settings.ArtifactPattern); ok {
		res.Artifact = a
	}
	slog.Info("model run finished", "model", m.ID, "exit", res.ExitCode, "artifact", res.Artifact, "took", res.Duration)
	return res, nil
}
