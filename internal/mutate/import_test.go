package mutate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/asd977/FlexSimulate/internal/fsutil"
)

func TestImportSchemeFromDirectory_NewScheme(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	dir := filepath.Join(t.TempDir(), "Wing Study")
	modelDir(t, filepath.Join(dir, "case1"))
	writeFile(t, filepath.Join(dir, "scheme_cover.png"), "png")

	res, err := ImportSchemeFromDirectory(db, dir, patterns)
	if err != nil {
		t.Fatalf("ImportSchemeFromDirectory: %v", err)
	}
	if !res.Created {
		t.Fatalf("expected a new scheme")
	}
	sc, ok := db.FindScheme(res.SchemeID)
	if !ok {
		t.Fatalf("scheme not stored")
	}
	if sc.Name != "Wing Study" || len(sc.Models) != 1 {
		t.Fatalf("unexpected scheme: %+v", sc)
	}
	if filepath.Base(sc.ThumbnailPath) != "scheme_cover.png" {
		t.Fatalf("cover not picked up: %q", sc.ThumbnailPath)
	}
}

func TestImportSchemeFromDirectory_MissingPath(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	_, err := ImportSchemeFromDirectory(db, filepath.Join(t.TempDir(), "nope"), patterns)
	var pe *PathInvalidError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PathInvalidError, got %v", err)
	}
	if len(db.Schemes) != 0 {
		t.Fatalf("no scheme should be created")
	}
}

func TestImportSchemeFromDirectory_SameDirectoryDifferentSpelling(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	base := t.TempDir()
	dir := filepath.Join(base, "scheme")
	modelDir(t, filepath.Join(dir, "m"))
	link := filepath.Join(base, "alias")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	spellings := []string{dir, dir + string(os.PathSeparator), filepath.Join(dir, "m", ".."), link}
	var first string
	for i, p := range spellings {
		res, err := ImportSchemeFromDirectory(db, p, patterns)
		if err != nil {
			t.Fatalf("import %q: %v", p, err)
		}
		if i == 0 {
			first = res.SchemeID
			continue
		}
		if res.Created || res.SchemeID != first {
			t.Fatalf("import %q created a second scheme", p)
		}
	}
	if len(db.Schemes) != 1 {
		t.Fatalf("expected exactly one scheme, got %d", len(db.Schemes))
	}
}

func TestRescan_IsDestructive(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	dir := t.TempDir()
	modelDir(t, filepath.Join(dir, "m1"))
	modelDir(t, filepath.Join(dir, "m2"))

	res, err := ImportSchemeFromDirectory(db, dir, patterns)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := db.FindScheme(res.SchemeID)
	if len(sc.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(sc.Models))
	}
	oldM1 := sc.Models[0]
	sc.Models[0].Remarks = "keep?"

	if err := os.RemoveAll(filepath.Join(dir, "m2")); err != nil {
		t.Fatal(err)
	}

	// Re-importing the same directory resyncs the bound scheme.
	res2, err := ImportSchemeFromDirectory(db, dir, patterns)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Created || res2.SchemeID != res.SchemeID {
		t.Fatalf("expected resync of existing scheme")
	}
	sc, _ = db.FindScheme(res.SchemeID)
	if len(sc.Models) != 1 {
		t.Fatalf("expected 1 model after rescan, got %d", len(sc.Models))
	}
	got := sc.Models[0]
	if got.Directory != oldM1.Directory {
		t.Fatalf("rescanned model dir = %q, want %q", got.Directory, oldM1.Directory)
	}
	if got.ID == oldM1.ID {
		t.Fatalf("rescan must assign a fresh id")
	}
	if got.Remarks != "" {
		t.Fatalf("rescan replaces records wholesale, remarks = %q", got.Remarks)
	}

	sc2, err := RescanScheme(db, res.SchemeID, patterns)
	if err != nil {
		t.Fatalf("RescanScheme: %v", err)
	}
	if sc2.Models[0].ID == got.ID {
		t.Fatalf("RescanScheme must assign a fresh id")
	}
}

func TestImportModelsIntoScheme_MovesFolder(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	sc, err := CreateScheme(db, CreateSchemeInput{Name: "Target"}, patterns)
	if err != nil {
		t.Fatalf("CreateScheme: %v", err)
	}
	schemeID := sc.ID
	workDir := sc.WorkingDirectory

	src := modelDir(t, filepath.Join(t.TempDir(), "case A"))
	res, err := ImportModelsIntoScheme(db, schemeID, []string{src}, patterns)
	if err != nil {
		t.Fatalf("ImportModelsIntoScheme: %v", err)
	}
	if len(res.Added) != 1 || len(res.Failures) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if exists(src) {
		t.Fatalf("source folder should have been moved away")
	}
	dest := filepath.Join(workDir, "case A")
	if !exists(filepath.Join(dest, "params.json")) {
		t.Fatalf("model folder missing at destination")
	}
	m, owner, ok := db.FindModel(res.Added[0])
	if !ok || owner.ID != schemeID {
		t.Fatalf("model not appended to scheme")
	}
	if m.Directory != fsutil.Canonicalize(dest) || m.ConfigPath != filepath.Join(m.Directory, "params.json") || m.ScriptPath != filepath.Join(m.Directory, "run.bat") {
		t.Fatalf("paths not rewritten: %+v", m)
	}
}

func TestImportModelsIntoScheme_NestedCollisionsAndFailures(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	sc, err := CreateScheme(db, CreateSchemeInput{Name: "Target"}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	schemeID := sc.ID
	workDir := sc.WorkingDirectory
	modelDir(t, filepath.Join(workDir, "case"))
	if _, err := RescanScheme(db, schemeID, patterns); err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	modelDir(t, filepath.Join(src, "batch", "case"))
	modelDir(t, filepath.Join(src, "batch", "other"))
	empty := filepath.Join(src, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := ImportModelsIntoScheme(db, schemeID, []string{
		filepath.Join(src, "missing"),
		empty,
		filepath.Join(src, "batch"),
	}, patterns)
	if err != nil {
		t.Fatalf("ImportModelsIntoScheme: %v", err)
	}
	if len(res.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", res.Failures)
	}
	if !errors.Is(res.Failures[1].Err, ErrNotModelSource) {
		t.Fatalf("expected ErrNotModelSource, got %v", res.Failures[1].Err)
	}
	if len(res.Added) != 2 {
		t.Fatalf("expected 2 models added, got %+v", res)
	}

	sc, _ = db.FindScheme(schemeID)
	names := []string{sc.Models[0].Name, sc.Models[1].Name, sc.Models[2].Name}
	if names[0] != "case" || names[1] != "case_2" || names[2] != "other" {
		t.Fatalf("names = %v", names)
	}
	if !exists(filepath.Join(workDir, "case_2")) {
		t.Fatalf("colliding folder should be moved under a suffixed name")
	}
}

func TestImportModelsIntoScheme_SkipsBoundDirectories(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	sc, err := CreateScheme(db, CreateSchemeInput{Name: "S"}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	schemeID := sc.ID
	src := modelDir(t, filepath.Join(t.TempDir(), "m"))

	first, err := ImportModelsIntoScheme(db, schemeID, []string{src}, patterns)
	if err != nil || len(first.Added) != 1 {
		t.Fatalf("first import: %+v %v", first, err)
	}
	m, _, _ := db.FindModel(first.Added[0])

	again, err := ImportModelsIntoScheme(db, schemeID, []string{m.Directory}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Added) != 0 || len(again.Skipped) != 1 {
		t.Fatalf("expected a silent skip, got %+v", again)
	}
	sc, _ = db.FindScheme(schemeID)
	if len(sc.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(sc.Models))
	}
}

func TestImportModelsIntoScheme_SkipsModelsOfOtherSchemes(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	a, err := CreateScheme(db, CreateSchemeInput{Name: "A"}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	aID := a.ID
	b, err := CreateScheme(db, CreateSchemeInput{Name: "B"}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	bID := b.ID

	src := modelDir(t, filepath.Join(t.TempDir(), "m"))
	first, err := ImportModelsIntoScheme(db, aID, []string{src}, patterns)
	if err != nil || len(first.Added) != 1 {
		t.Fatalf("import into A: %+v %v", first, err)
	}
	m, _, _ := db.FindModel(first.Added[0])
	modelPath := m.Directory
	a, _ = db.FindScheme(aID)
	workDirA := a.WorkingDirectory

	for _, path := range []string{modelPath, workDirA} {
		res, err := ImportModelsIntoScheme(db, bID, []string{path}, patterns)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Added) != 0 || len(res.Skipped) != 1 || len(res.Failures) != 0 {
			t.Fatalf("import %s into B: expected one skip, got %+v", path, res)
		}
	}

	if !exists(modelPath) {
		t.Fatalf("model folder %s was moved away from scheme A", modelPath)
	}
	b, _ = db.FindScheme(bID)
	if len(b.Models) != 0 {
		t.Fatalf("expected B to stay empty, got %d models", len(b.Models))
	}
	a, _ = db.FindScheme(aID)
	if len(a.Models) != 1 || a.Models[0].Directory != modelPath {
		t.Fatalf("scheme A changed: %+v", a.Models)
	}
}

func TestImportModelsIntoScheme_UnknownScheme(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	_, err := ImportModelsIntoScheme(db, "nope", nil, patterns)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
