package mutate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/store"
)

func TestCreateScheme_FromTemplate(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	tpl := t.TempDir()
	modelDir(t, filepath.Join(tpl, "base case"))
	writeFile(t, filepath.Join(tpl, "notes.txt"), "n")

	sc, err := CreateScheme(db, CreateSchemeInput{Name: "My Study", TemplateDir: tpl}, patterns)
	if err != nil {
		t.Fatalf("CreateScheme: %v", err)
	}
	if sc.Name != "My Study" {
		t.Fatalf("Name = %q", sc.Name)
	}
	if filepath.Base(sc.WorkingDirectory) != "My_Study" {
		t.Fatalf("working dir = %q", sc.WorkingDirectory)
	}
	if len(sc.Models) != 1 || sc.Models[0].Name != "base case" {
		t.Fatalf("template models not imported: %+v", sc.Models)
	}
	if !exists(filepath.Join(tpl, "base case", "params.json")) {
		t.Fatalf("template must be copied, not moved")
	}
	firstDir := sc.WorkingDirectory

	sc2, err := CreateScheme(db, CreateSchemeInput{Name: "my study"}, patterns)
	if err != nil {
		t.Fatalf("CreateScheme (second): %v", err)
	}
	if sc2.Name != "my study (2)" {
		t.Fatalf("second scheme name = %q", sc2.Name)
	}
	if sc2.WorkingDirectory == firstDir {
		t.Fatalf("second scheme must get its own working directory")
	}
}

func TestCreateScheme_Errors(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	if _, err := CreateScheme(db, CreateSchemeInput{Name: "  "}, patterns); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := CreateScheme(&store.DB{}, CreateSchemeInput{Name: "x"}, patterns); !errors.Is(err, ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}

	_, err := CreateScheme(db, CreateSchemeInput{Name: "Broken", TemplateDir: filepath.Join(t.TempDir(), "missing")}, patterns)
	var pe *PathInvalidError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PathInvalidError, got %v", err)
	}
	if exists(filepath.Join(db.WorkspaceRoot, "Broken")) {
		t.Fatalf("working directory must be removed after a failed create")
	}
	if len(db.Schemes) != 0 {
		t.Fatalf("no scheme should be recorded")
	}
}

func TestRenameScheme_RejectsWithoutMutating(t *testing.T) {
	t.Parallel()

	db := &store.DB{Schemes: []model.Scheme{{ID: "s1", Name: "Alpha"}, {ID: "s2", Name: "Beta"}}}
	before := db.Clone()

	var nc *NameConflictError
	if _, err := RenameScheme(db, "s1", " beta "); !errors.As(err, &nc) {
		t.Fatalf("expected NameConflictError, got %v", err)
	}
	if _, err := RenameScheme(db, "s1", "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	for i := range before.Schemes {
		if db.Schemes[i].Name != before.Schemes[i].Name {
			t.Fatalf("store mutated by rejected rename")
		}
	}

	res, err := RenameScheme(db, "s1", "  ALPHA  ")
	if err != nil {
		t.Fatalf("case-only rename of self should be allowed: %v", err)
	}
	if !res.Changed || db.Schemes[0].Name != "ALPHA" {
		t.Fatalf("rename not applied: %+v", res)
	}
}

func TestSchemeNames_StayUniqueUnderAnySequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := &store.DB{}
		nameGen := rapid.StringMatching(`[ aAbB]{0,3}`)
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(db.Schemes) == 0 || rapid.Bool().Draw(t, "create") {
				id := store.NewID()
				db.AddScheme(model.Scheme{ID: id, Name: db.UniqueSchemeName(nameGen.Draw(t, "name"), id)})
			} else {
				idx := rapid.IntRange(0, len(db.Schemes)-1).Draw(t, "idx")
				_, _ = RenameScheme(db, db.Schemes[idx].ID, nameGen.Draw(t, "rename"))
			}

			seen := map[string]bool{}
			for _, sc := range db.Schemes {
				k := strings.ToLower(strings.TrimSpace(sc.Name))
				if k == "" || seen[k] {
					t.Fatalf("names not unique after step %d: %+v", i, db.Schemes)
				}
				seen[k] = true
			}
		}
	})
}

func TestRemoveScheme_DeletesCoverAndOptionallyFiles(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	img := filepath.Join(t.TempDir(), "pic.JPG")
	writeFile(t, img, "jpg")
	sc, err := CreateScheme(db, CreateSchemeInput{Name: "Keep", Thumbnail: img}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	keepDir, cover := sc.WorkingDirectory, sc.ThumbnailPath
	if filepath.Base(cover) != "scheme_cover.jpg" {
		t.Fatalf("cover = %q", cover)
	}

	if _, err := RemoveScheme(db, sc.ID, false); err != nil {
		t.Fatalf("RemoveScheme: %v", err)
	}
	if exists(cover) {
		t.Fatalf("cover inside working directory should be deleted")
	}
	if !exists(keepDir) {
		t.Fatalf("working directory must be kept without deleteFiles")
	}

	sc, err = CreateScheme(db, CreateSchemeInput{Name: "Drop"}, patterns)
	if err != nil {
		t.Fatal(err)
	}
	dropDir := sc.WorkingDirectory
	if _, err := RemoveScheme(db, sc.ID, true); err != nil {
		t.Fatalf("RemoveScheme(deleteFiles): %v", err)
	}
	if _, err := os.Stat(dropDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("working directory should be deleted, stat err=%v", err)
	}
	if len(db.Schemes) != 0 {
		t.Fatalf("expected no schemes left")
	}
}

func TestMoveScheme(t *testing.T) {
	t.Parallel()

	db := &store.DB{Schemes: []model.Scheme{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	order := func() string {
		var s string
		for _, sc := range db.Schemes {
			s += sc.ID
		}
		return s
	}
	if changed, err := MoveScheme(db, "a", 2); err != nil || !changed || order() != "bca" {
		t.Fatalf("move a->2: changed=%v err=%v order=%s", changed, err, order())
	}
	if changed, _ := MoveScheme(db, "a", 99); changed {
		t.Fatalf("clamped no-op move reported change")
	}
	if _, err := MoveScheme(db, "c", -5); err != nil || order() != "cba" {
		t.Fatalf("move c->0: order=%s err=%v", order(), err)
	}
	if _, err := MoveScheme(db, "zz", 0); err == nil {
		t.Fatalf("expected NotFoundError")
	}
}

func TestAddSchemeFromLibrary_Copies(t *testing.T) {
	t.Parallel()

	db := newDB(t)
	entryDir := t.TempDir()
	modelDir(t, filepath.Join(entryDir, "m"))
	entry := model.LibraryEntry{ID: "lib-1", Name: "Template A", Directory: entryDir}

	sc, err := AddSchemeFromLibrary(db, entry, patterns)
	if err != nil {
		t.Fatalf("AddSchemeFromLibrary: %v", err)
	}
	if sc.Name != "Template A" || len(sc.Models) != 1 {
		t.Fatalf("unexpected scheme: %+v", sc)
	}
	if !exists(filepath.Join(entryDir, "m", "params.json")) {
		t.Fatalf("library entry must stay in place")
	}

	sc2, err := AddSchemeFromLibrary(db, entry, patterns)
	if err != nil {
		t.Fatal(err)
	}
	if sc2.Name != "Template A (2)" || sc2.WorkingDirectory == db.Schemes[0].WorkingDirectory {
		t.Fatalf("second add should be independent: %+v", sc2)
	}

	if _, err := AddSchemeFromLibrary(&store.DB{}, entry, patterns); !errors.Is(err, ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}
}
