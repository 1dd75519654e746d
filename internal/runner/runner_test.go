package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/asd977/FlexSimulate/internal/config"
	"github.com/asd977/FlexSimulate/internal/model"
)

func shSettings(t *testing.T) config.Settings {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell script")
	}
	s := config.Default()
	s.ScriptPattern = "*.sh"
	return s
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_CapturesOutputAndArtifact(t *testing.T) {
	t.Parallel()
	settings := shSettings(t)
	dir := t.TempDir()
	writeScript(t, dir, "echo solving\necho mesh > result.stl\n")

	res, err := Run(context.Background(), model.Model{ID: "m1", Name: "Case", Directory: dir}, settings)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.OK() || !strings.Contains(res.Output, "solving") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if filepath.Base(res.Artifact) != "result.stl" {
		t.Fatalf("artifact = %q", res.Artifact)
	}
}

func TestRun_NonZeroExitIsReported(t *testing.T) {
	t.Parallel()
	settings := shSettings(t)
	dir := t.TempDir()
	script := writeScript(t, dir, "echo broken >&2\nexit 3\n")

	res, err := Run(context.Background(), model.Model{ID: "m1", Directory: dir, ScriptPath: script}, settings)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 || res.OK() {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if !strings.Contains(res.Output, "broken") {
		t.Fatalf("stderr not captured: %q", res.Output)
	}
	if res.Artifact != "" {
		t.Fatalf("no artifact expected, got %q", res.Artifact)
	}
}

func TestRun_NoScript(t *testing.T) {
	t.Parallel()
	_, err := Run(context.Background(), model.Model{Name: "Empty", Directory: t.TempDir()}, config.Default())
	if !errors.Is(err, ErrNoScript) {
		t.Fatalf("expected ErrNoScript, got %v", err)
	}
}

func TestCommand_ShellOverride(t *testing.T) {
	t.Parallel()
	s := config.Default()
	s.ScriptShell = []string{"bash", "-e"}
	cmd := Command(context.Background(), "/x/run.sh", s)
	if got := strings.Join(cmd.Args, " "); got != "bash -e /x/run.sh" {
		t.Fatalf("args = %q", got)
	}
}
