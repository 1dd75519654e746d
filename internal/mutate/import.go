package mutate

import (
	"os"
	"path/filepath"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

type ImportSchemeResult struct {
	SchemeID string
	// Created is false when the directory was already bound to a scheme and that scheme was resynced.
	Created bool
}

// ImportSchemeFromDirectory binds dir to a scheme. A directory that already backs a scheme
// resyncs it: the scheme takes the directory's name and its models are replaced by a fresh scan.
// Otherwise a new scheme is appended, picking up a cover image if the folder has one.
// Callers are responsible for saving db.
func ImportSchemeFromDirectory(db *store.DB, dir string, p scan.Patterns) (ImportSchemeResult, error) {
	canonical := fsutil.Canonicalize(dir)
	if canonical == "" || !fsutil.IsDir(canonical) {
		return ImportSchemeResult{}, &PathInvalidError{Path: dir, Err: os.ErrNotExist}
	}
	base := filepath.Base(canonical)

	if sc, ok := db.SchemeByWorkingDirectory(canonical); ok {
		sc.Name = db.UniqueSchemeName(base, sc.ID)
		sc.Models = scan.ScanSchemeFolder(canonical, p)
		return ImportSchemeResult{SchemeID: sc.ID}, nil
	}

	id := store.NewID()
	sc := model.Scheme{
		ID:               id,
		Name:             db.UniqueSchemeName(base, id),
		WorkingDirectory: canonical,
		ThumbnailPath:    scan.FindCover(canonical, p),
		Models:           scan.ScanSchemeFolder(canonical, p),
	}
	db.AddScheme(sc)
	return ImportSchemeResult{SchemeID: id, Created: true}, nil
}

// RescanScheme replaces a scheme's models with what is on disk now. Every rediscovered model gets
// a fresh id and empty remarks. The scheme keeps its name.
func RescanScheme(db *store.DB, schemeID string, p scan.Patterns) (*model.Scheme, error) {
	sc, ok := db.FindScheme(schemeID)
	if !ok {
		return nil, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	if !fsutil.IsDir(sc.WorkingDirectory) {
		return nil, &PathInvalidError{Path: sc.WorkingDirectory, Err: os.ErrNotExist}
	}
	sc.Models = scan.ScanSchemeFolder(sc.WorkingDirectory, p)
	return sc, nil
}

type ImportModelsResult struct {
	Added    []string
	Skipped  []string
	Failures []ImportFailure
}

// ImportModelsIntoScheme moves model folders into the scheme's working directory and appends a
// record for each. A path that is itself a model folder is moved as a whole; otherwise each model
// folder directly below it is moved. Folders already bound to any scheme are skipped, and folders
// that already sit directly in the working directory are adopted without moving. Per-path
// problems are collected in Failures; only an unknown scheme or an unusable working directory
// fails the call. Callers are responsible for saving db.
func ImportModelsIntoScheme(db *store.DB, schemeID string, paths []string, p scan.Patterns) (ImportModelsResult, error) {
	var res ImportModelsResult
	sc, ok := db.FindScheme(schemeID)
	if !ok {
		return res, NotFoundError{Kind: "scheme", ID: schemeID}
	}
	if err := fsutil.EnsureDir(sc.WorkingDirectory); err != nil {
		return res, &IOError{Op: "create", Path: sc.WorkingDirectory, Err: err}
	}
	workDir := fsutil.Canonicalize(sc.WorkingDirectory)

	// Model directories across the whole project; each belongs to exactly one record.
	bound := map[string]bool{}
	for _, other := range db.Schemes {
		for _, m := range other.Models {
			bound[fsutil.Canonicalize(m.Directory)] = true
		}
	}
	taken := store.ModelNames(sc, "")

	for _, path := range paths {
		canonical := fsutil.Canonicalize(path)
		if canonical == "" || !fsutil.IsDir(canonical) {
			res.Failures = append(res.Failures, ImportFailure{Path: path, Err: &PathInvalidError{Path: path, Err: os.ErrNotExist}})
			continue
		}

		var folders []scan.ModelFolder
		if mf, ok := scan.IsModelFolder(canonical, p); ok {
			folders = []scan.ModelFolder{mf}
		} else {
			folders = scan.ModelFolders(canonical, p)
		}
		if len(folders) == 0 {
			res.Failures = append(res.Failures, ImportFailure{Path: path, Err: &PathInvalidError{Path: path, Err: ErrNotModelSource}})
			continue
		}

		for _, mf := range folders {
			if bound[mf.Dir] {
				res.Skipped = append(res.Skipped, mf.Dir)
				continue
			}
			dest := mf.Dir
			if !fsutil.SamePath(filepath.Dir(mf.Dir), workDir) {
				dest = fsutil.UniqueChildPath(workDir, filepath.Base(mf.Dir))
				if err := fsutil.MoveTree(mf.Dir, dest); err != nil {
					res.Failures = append(res.Failures, ImportFailure{Path: mf.Dir, Err: &IOError{Op: "move", Path: mf.Dir, Err: err}})
					continue
				}
				dest = fsutil.Canonicalize(dest)
			}

			m := model.Model{
				ID:         store.NewID(),
				Name:       store.UniqueName(filepath.Base(dest), taken, store.FallbackModelName),
				Directory:  dest,
				ConfigPath: filepath.Join(dest, filepath.Base(mf.ConfigPath)),
			}
			if mf.ScriptPath != "" {
				m.ScriptPath = filepath.Join(dest, filepath.Base(mf.ScriptPath))
			}
			sc.Models = append(sc.Models, m)
			bound[dest] = true
			res.Added = append(res.Added, m.ID)
		}
	}
	return res, nil
}
