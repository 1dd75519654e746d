package mutate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

var patterns = scan.DefaultPatterns()

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// modelDir creates a model folder with a config and a script.
func modelDir(t *testing.T, dir string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, "params.json"), "{}")
	writeFile(t, filepath.Join(dir, "run.bat"), "echo")
	return dir
}

func newDB(t *testing.T) *store.DB {
	t.Helper()
	root := fsutil.Canonicalize(t.TempDir())
	return &store.DB{WorkspaceRoot: filepath.Join(root, "workspaces")}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
