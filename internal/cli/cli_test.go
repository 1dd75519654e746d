package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/asd977/FlexSimulate/internal/config"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("flexsim %v failed: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("flexsim %v: stdout is not a JSON envelope: %v\n%s", args, err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("flexsim %v: missing data key: %s", args, stdout)
	}
	return data
}

func writeModelFolder(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "params.json"), []byte(`{"load": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupProject(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Setenv("FLEXSIM_PROJECT", "")
	t.Setenv("FLEXSIM_FORMAT", "")

	data := mustData(t, "project", "new", t.TempDir(), "Bridge").(map[string]any)
	if data["open"] != true || data["name"] != "Bridge" {
		t.Fatalf("project new: %v", data)
	}
	return data["root"].(string)
}

func TestCLI_ProjectIsRememberedBetweenRuns(t *testing.T) {
	root := setupProject(t)

	status := mustData(t, "project", "status").(map[string]any)
	if status["root"] != root {
		t.Fatalf("status root = %v, want %s", status["root"], root)
	}

	mustData(t, "project", "close")
	status = mustData(t, "project", "status").(map[string]any)
	if status["open"] != false {
		t.Fatalf("project should be closed: %v", status)
	}
	if _, _, err := runCLI(t, []string{"scheme", "list"}); err == nil {
		t.Fatalf("scheme list without a project should fail")
	}

	// --project wins over the remembered state.
	status = mustData(t, "--project", root, "project", "status").(map[string]any)
	if status["root"] != root {
		t.Fatalf("--project not honored: %v", status)
	}
}

func TestCLI_SchemeAndModelLifecycle(t *testing.T) {
	setupProject(t)
	src := t.TempDir()
	deck := filepath.Join(src, "Deck")
	writeModelFolder(t, filepath.Join(deck, "Case1"))

	imp := mustData(t, "scheme", "import", deck).(map[string]any)
	ids := imp["schemeIds"].([]any)
	if len(ids) != 1 {
		t.Fatalf("import: %v", imp)
	}
	schemeID := ids[0].(string)

	list := mustData(t, "scheme", "list").([]any)
	if len(list) != 1 || list[0].(map[string]any)["name"] != "Deck" {
		t.Fatalf("scheme list: %v", list)
	}

	ren := mustData(t, "scheme", "rename", "deck", "Main deck").(map[string]any)
	if ren["changed"] != true || ren["new"] != "Main deck" {
		t.Fatalf("rename: %v", ren)
	}

	incoming := filepath.Join(t.TempDir(), "Case2")
	writeModelFolder(t, incoming)
	mi := mustData(t, "model", "import", "Main deck", incoming).(map[string]any)
	if len(mi["modelIds"].([]any)) != 1 {
		t.Fatalf("model import: %v", mi)
	}
	if _, err := os.Stat(incoming); !os.IsNotExist(err) {
		t.Fatalf("imported model folder should have been moved")
	}

	if _, stderr, err := runCLI(t, []string{"model", "rename", "Case2", "case1"}); err == nil {
		t.Fatalf("duplicate model name should be rejected")
	} else if !strings.Contains(string(stderr), "already") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}

	mustData(t, "model", "remarks", "Main deck/Case1", "baseline")
	shown := mustData(t, "model", "show", "Case1").(map[string]any)
	if shown["remarks"] != "baseline" || shown["schemeId"] != schemeID {
		t.Fatalf("model show: %v", shown)
	}
	byID := mustData(t, "show", schemeID).(map[string]any)
	if byID["id"] != schemeID {
		t.Fatalf("show by id: %v", byID)
	}

	models := mustData(t, "model", "list", schemeID).([]any)
	if len(models) != 2 {
		t.Fatalf("model list: %v", models)
	}
	mustData(t, "model", "move", "Case2", "0")
	models = mustData(t, "model", "list").([]any)
	if models[0].(map[string]any)["name"] != "Case2" {
		t.Fatalf("move did not reorder: %v", models)
	}

	if _, _, err := runCLI(t, []string{"scheme", "delete", "Main deck"}); err == nil {
		t.Fatalf("delete without --yes and without a terminal must be refused")
	}
	mustData(t, "scheme", "delete", "Main deck", "--yes")
	if list := mustData(t, "scheme", "list").([]any); len(list) != 0 {
		t.Fatalf("scheme not deleted: %v", list)
	}

	entries := mustData(t, "log").([]any)
	if len(entries) == 0 {
		t.Fatalf("expected activity entries")
	}
}

func TestCLI_NewSchemeFromTemplateAndTree(t *testing.T) {
	setupProject(t)
	tpl := t.TempDir()
	writeModelFolder(t, filepath.Join(tpl, "Base"))

	sc := mustData(t, "scheme", "new", "Tower", "--template", tpl).(map[string]any)
	if sc["name"] != "Tower" || len(sc["models"].([]any)) != 1 {
		t.Fatalf("scheme new: %v", sc)
	}

	stdout, _, err := runCLI(t, []string{"tree"})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	out := string(stdout)
	for _, want := range []string{"Scheme library", "Bridge", "Tower", "Base"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_UnknownSchemeSuggestsNames(t *testing.T) {
	setupProject(t)
	mustData(t, "scheme", "new", "Tower")

	_, stderr, err := runCLI(t, []string{"scheme", "show", "Towr"})
	if err == nil {
		t.Fatalf("expected not found")
	}
	if !strings.Contains(string(stderr), `did you mean "Tower"`) {
		t.Fatalf("expected a suggestion, got: %s", stderr)
	}
}

func TestCLI_YAMLOutput(t *testing.T) {
	setupProject(t)
	stdout, _, err := runCLI(t, []string{"--format", "yaml", "project", "status"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(string(stdout), "name: Bridge") {
		t.Fatalf("yaml output: %s", stdout)
	}
}

func TestSuggest(t *testing.T) {
	got := suggest("bridge", []string{"Bridge deck", "Bridg", "Tower", "bridge2"})
	if len(got) == 0 || got[0] == "Tower" {
		t.Fatalf("suggestions = %v", got)
	}
	for _, s := range got {
		if s == "Tower" {
			t.Fatalf("unrelated name suggested: %v", got)
		}
	}
	if got := suggest("", []string{"a"}); got != nil {
		t.Fatalf("empty ref should suggest nothing, got %v", got)
	}
}
