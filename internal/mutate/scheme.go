package mutate

import (
	"os"
	"strings"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

// WorkspaceSubdir reserves a fresh working directory path for a scheme called name.
func WorkspaceSubdir(workspaceRoot, name string) (string, error) {
	if strings.TrimSpace(workspaceRoot) == "" {
		return "", ErrNoProject
	}
	if err := fsutil.EnsureDir(workspaceRoot); err != nil {
		return "", &IOError{Op: "create", Path: workspaceRoot, Err: err}
	}
	return fsutil.UniqueChildPath(workspaceRoot, fsutil.DirName(name, "Workspace")), nil
}

type CreateSchemeInput struct {
	Name string
	// TemplateDir, when set, is copied into the new working directory.
	TemplateDir string
	Thumbnail   string
}

// CreateScheme makes a working directory under the workspace root, seeds it from a template,
// imports it and names the scheme after in.Name. The directory is removed again if any step
// before the import fails. Callers are responsible for saving db.
func CreateScheme(db *store.DB, in CreateSchemeInput, p scan.Patterns) (*model.Scheme, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	dir, err := WorkspaceSubdir(db.WorkspaceRoot, name)
	if err != nil {
		return nil, err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, &IOError{Op: "create", Path: dir, Err: err}
	}
	if tpl := strings.TrimSpace(in.TemplateDir); tpl != "" {
		if !fsutil.IsDir(tpl) {
			_ = os.RemoveAll(dir)
			return nil, &PathInvalidError{Path: tpl, Err: os.ErrNotExist}
		}
		if err := fsutil.CopyTree(tpl, dir); err != nil {
			_ = os.RemoveAll(dir)
			return nil, &IOError{Op: "copy", Path: tpl, Err: err}
		}
	}
	return adoptCopiedScheme(db, dir, name, in.Thumbnail, p)
}

// AddSchemeFromLibrary copies a library entry into a fresh working directory and imports it
// under the entry's name. Callers are responsible for saving db.
func AddSchemeFromLibrary(db *store.DB, entry model.LibraryEntry, p scan.Patterns) (*model.Scheme, error) {
	if strings.TrimSpace(db.WorkspaceRoot) == "" {
		return nil, ErrNoProject
	}
	if !fsutil.IsDir(entry.Directory) {
		return nil, &PathInvalidError{Path: entry.Directory, Err: os.ErrNotExist}
	}
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = store.FallbackSchemeName
	}
	dir, err := WorkspaceSubdir(db.WorkspaceRoot, name)
	if err != nil {
		return nil, err
	}
	if err := fsutil.CopyTree(entry.Directory, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, &IOError{Op: "copy", Path: entry.Directory, Err: err}
	}
	return adoptCopiedScheme(db, dir, name, "", p)
}

func adoptCopiedScheme(db *store.DB, dir, name, thumbnail string, p scan.Patterns) (*model.Scheme, error) {
	res, err := ImportSchemeFromDirectory(db, dir, p)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	sc, _ := db.FindScheme(res.SchemeID)
	sc.Name = db.UniqueSchemeName(name, sc.ID)
	if strings.TrimSpace(thumbnail) != "" {
		if err := applyThumbnail(sc.WorkingDirectory, &sc.ThumbnailPath, thumbnail); err != nil {
			return sc, err
		}
	}
	return sc, nil
}

type RenameResult struct {
	Old     string `json:"old"`
	New     string `json:"new"`
	Changed bool   `json:"changed"`
}

// CheckSchemeName validates an interactive rename. It returns the trimmed name, ErrEmptyName, or
// a *NameConflictError; it never suffixes.
func CheckSchemeName(db *store.DB, schemeID, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	if db.SchemeNames(schemeID).Has(trimmed) {
		return "", &NameConflictError{Kind: "scheme", Name: trimmed}
	}
	return trimmed, nil
}

// RenameScheme applies a validated rename. On error the store is left untouched.
func RenameScheme(db *store.DB, schemeID, name string) (RenameResult, error) {
	sc, ok := db.FindScheme(schemeID)
	if !ok {
		return RenameResult{}, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	trimmed, err := CheckSchemeName(db, schemeID, name)
	if err != nil {
		return RenameResult{Old: sc.Name, New: sc.Name}, err
	}
	res := RenameResult{Old: sc.Name, New: trimmed, Changed: sc.Name != trimmed}
	sc.Name = trimmed
	return res, nil
}

func SetSchemeRemarks(db *store.DB, schemeID, remarks string) (bool, error) {
	sc, ok := db.FindScheme(schemeID)
	if !ok {
		return false, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	if sc.Remarks == remarks {
		return false, nil
	}
	sc.Remarks = remarks
	return true, nil
}

type RemoveSchemeResult struct {
	Scheme model.Scheme
}

// RemoveScheme drops a scheme and its stored cover image. With deleteFiles the working
// directory is removed too; a failure there is returned after the record is already gone.
// Callers are responsible for saving db.
func RemoveScheme(db *store.DB, schemeID string, deleteFiles bool) (RemoveSchemeResult, error) {
	removed, ok := db.RemoveScheme(schemeID)
	if !ok {
		return RemoveSchemeResult{}, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	res := RemoveSchemeResult{Scheme: removed}
	if removed.ThumbnailPath != "" && fsutil.IsWithin(removed.ThumbnailPath, removed.WorkingDirectory) {
		_ = os.Remove(removed.ThumbnailPath)
	}
	if deleteFiles {
		if err := removeRecordDir(removed.WorkingDirectory); err != nil {
			return res, err
		}
	}
	return res, nil
}

func removeRecordDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || fsutil.SamePath(dir, string(os.PathSeparator)) {
		return &PathInvalidError{Path: dir, Err: os.ErrInvalid}
	}
	if err := os.RemoveAll(dir); err != nil {
		return &IOError{Op: "remove", Path: dir, Err: err}
	}
	return nil
}

// MoveScheme moves a scheme to position index (clamped) in display order.
func MoveScheme(db *store.DB, schemeID string, index int) (bool, error) {
	from := -1
	for i := range db.Schemes {
		if db.Schemes[i].ID == schemeID {
			from = i
			break
		}
	}
	if from < 0 {
		return false, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	to := clamp(index, 0, len(db.Schemes)-1)
	if to == from {
		return false, nil
	}
	db.Schemes = moveElem(db.Schemes, from, to)
	return true, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func moveElem[T any](s []T, from, to int) []T {
	v := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s, v)
	copy(s[to+1:], s[to:len(s)-1])
	s[to] = v
	return s
}
