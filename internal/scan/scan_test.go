package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsModelFolder(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	root := t.TempDir()

	touch(t, filepath.Join(root, "full", "b.json"))
	touch(t, filepath.Join(root, "full", "a.JSON"))
	touch(t, filepath.Join(root, "full", "run.bat"))
	touch(t, filepath.Join(root, "noscript", "cfg.json"))
	touch(t, filepath.Join(root, "scriptonly", "run.bat"))

	mf, ok := IsModelFolder(filepath.Join(root, "full"), p)
	if !ok {
		t.Fatalf("full should be a model folder")
	}
	if filepath.Base(mf.ConfigPath) != "a.JSON" {
		t.Fatalf("expected first config in lexical order, got %q", mf.ConfigPath)
	}
	if filepath.Base(mf.ScriptPath) != "run.bat" {
		t.Fatalf("ScriptPath = %q", mf.ScriptPath)
	}

	mf, ok = IsModelFolder(filepath.Join(root, "noscript"), p)
	if !ok || mf.ScriptPath != "" {
		t.Fatalf("a folder without a script is still a model folder: ok=%v %+v", ok, mf)
	}
	if _, ok := IsModelFolder(filepath.Join(root, "scriptonly"), p); ok {
		t.Fatalf("a folder without a config is not a model folder")
	}
	if _, ok := IsModelFolder(filepath.Join(root, "missing"), p); ok {
		t.Fatalf("missing dir is not a model folder")
	}
}

func TestScanSchemeFolder_SkipsAndDoesNotRecurse(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	root := t.TempDir()
	touch(t, filepath.Join(root, "case2", "c.json"))
	touch(t, filepath.Join(root, "case1", "c.json"))
	touch(t, filepath.Join(root, "docs", "readme.txt"))
	touch(t, filepath.Join(root, "group", "nested", "c.json"))
	touch(t, filepath.Join(root, "top.json"))

	models := ScanSchemeFolder(root, p)
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %+v", models)
	}
	if models[0].Name != "case1" || models[1].Name != "case2" {
		t.Fatalf("unexpected order: %q, %q", models[0].Name, models[1].Name)
	}
	if models[0].ID == "" || models[0].ID == models[1].ID {
		t.Fatalf("ids must be fresh and distinct")
	}
	if !IsSchemeFolder(root, p) {
		t.Fatalf("root should be a scheme folder")
	}
	if IsSchemeFolder(filepath.Join(root, "docs"), p) {
		t.Fatalf("docs is not a scheme folder")
	}
}

func TestScanSchemeFolder_FreshIDsOnEveryScan(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	root := t.TempDir()
	touch(t, filepath.Join(root, "m", "c.json"))

	a := ScanSchemeFolder(root, p)
	b := ScanSchemeFolder(root, p)
	if a[0].ID == b[0].ID {
		t.Fatalf("rescan must assign a new id")
	}
	if a[0].Directory != b[0].Directory {
		t.Fatalf("directory should be stable")
	}
}

func TestFindCover(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	root := t.TempDir()
	if got := FindCover(root, p); got != "" {
		t.Fatalf("FindCover = %q", got)
	}
	touch(t, filepath.Join(root, "Scheme_Cover.JPG"))
	if got := FindCover(root, p); filepath.Base(got) != "Scheme_Cover.JPG" {
		t.Fatalf("FindCover = %q", got)
	}
}
