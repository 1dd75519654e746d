package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
)

const (
	// IndexFileName is the per-project index of schemes and models.
	IndexFileName = "schemes.json"
	// WorkspacesDirName holds generated scheme working directories inside a project.
	WorkspacesDirName = "workspaces"
)

// DB is the in-memory record store for one project. Scheme order is display order.
//
// Pointers returned by lookups point into Schemes and are invalidated by any call that
// adds or removes schemes or models.
type DB struct {
	WorkspaceRoot string
	Schemes       []model.Scheme
}

// Store reads and writes the index of the project rooted at Dir.
type Store struct {
	Dir string
}

func (s Store) IndexPath() string {
	return filepath.Join(s.Dir, IndexFileName)
}

// DefaultWorkspaceRoot is <project>/workspaces.
func (s Store) DefaultWorkspaceRoot() string {
	return fsutil.Canonicalize(filepath.Join(s.Dir, WorkspacesDirName))
}

// Load reads the project index. A missing or unreadable/corrupt index yields an empty DB and
// loaded=false; the caller decides whether to write a fresh one. Corrupt entries inside a valid
// index are dropped silently.
func (s Store) Load() (db *DB, loaded bool, err error) {
	db = &DB{WorkspaceRoot: s.DefaultWorkspaceRoot()}
	b, err := os.ReadFile(s.IndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return db, false, nil
		}
		slog.Debug("index unreadable; starting empty", "path", s.IndexPath(), "error", err)
		return db, false, nil
	}
	idx, err := decodeIndex(b)
	if err != nil {
		slog.Debug("index corrupt; starting empty", "path", s.IndexPath(), "error", err)
		return db, false, nil
	}

	if root := s.resolveWorkspaceRoot(idx.WorkspaceRoot); root != "" {
		db.WorkspaceRoot = root
	}
	db.Schemes = normalizeSchemes(idx.Schemes)
	db.EnsureUniqueNames()
	return db, true, nil
}

func (s Store) resolveWorkspaceRoot(stored string) string {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return fsutil.Canonicalize(stored)
	}
	return fsutil.Canonicalize(filepath.Join(s.Dir, stored))
}

func normalizeSchemes(in []model.Scheme) []model.Scheme {
	out := make([]model.Scheme, 0, len(in))
	seenIDs := map[string]bool{}
	seenDirs := map[string]bool{}
	for _, sc := range in {
		sc.WorkingDirectory = fsutil.Canonicalize(sc.WorkingDirectory)
		if sc.WorkingDirectory == "" || seenDirs[sc.WorkingDirectory] {
			continue
		}
		seenDirs[sc.WorkingDirectory] = true
		sc.ID = strings.TrimSpace(sc.ID)
		if sc.ID == "" || seenIDs[sc.ID] {
			sc.ID = NewID()
		}
		seenIDs[sc.ID] = true
		if t := strings.TrimSpace(sc.ThumbnailPath); t != "" {
			if !filepath.IsAbs(t) {
				t = filepath.Join(sc.WorkingDirectory, t)
			}
			sc.ThumbnailPath = filepath.Clean(t)
		}

		models := make([]model.Model, 0, len(sc.Models))
		for _, m := range sc.Models {
			m.Directory = fsutil.Canonicalize(m.Directory)
			m.ConfigPath = cleanOrEmpty(m.ConfigPath)
			m.ScriptPath = cleanOrEmpty(m.ScriptPath)
			if m.Directory == "" || m.ConfigPath == "" {
				continue
			}
			m.ID = strings.TrimSpace(m.ID)
			if m.ID == "" || seenIDs[m.ID] {
				m.ID = NewID()
			}
			seenIDs[m.ID] = true
			models = append(models, m)
		}
		sc.Models = models
		out = append(out, sc)
	}
	return out
}

func cleanOrEmpty(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// Save writes the index atomically. The workspace root is stored relative to the project
// when it lives inside it.
func (s Store) Save(db *DB) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	b, err := encodeIndex(s.Dir, db)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, IndexFileName+".*.tmp", s.IndexPath(), b, 0o644)
}

func (db *DB) FindScheme(id string) (*model.Scheme, bool) {
	for i := range db.Schemes {
		if db.Schemes[i].ID == id {
			return &db.Schemes[i], true
		}
	}
	return nil, false
}

// FindModel returns the model with id and its owning scheme.
func (db *DB) FindModel(id string) (*model.Model, *model.Scheme, bool) {
	for i := range db.Schemes {
		if m, ok := db.Schemes[i].FindModel(id); ok {
			return m, &db.Schemes[i], true
		}
	}
	return nil, nil, false
}

// SchemeByWorkingDirectory finds the scheme bound to a canonical directory.
func (db *DB) SchemeByWorkingDirectory(canonical string) (*model.Scheme, bool) {
	if canonical == "" {
		return nil, false
	}
	for i := range db.Schemes {
		if fsutil.Canonicalize(db.Schemes[i].WorkingDirectory) == canonical {
			return &db.Schemes[i], true
		}
	}
	return nil, false
}

// AddScheme appends sc and returns a pointer to the stored copy.
func (db *DB) AddScheme(sc model.Scheme) *model.Scheme {
	db.Schemes = append(db.Schemes, sc)
	return &db.Schemes[len(db.Schemes)-1]
}

func (db *DB) RemoveScheme(id string) (model.Scheme, bool) {
	for i := range db.Schemes {
		if db.Schemes[i].ID == id {
			removed := db.Schemes[i]
			db.Schemes = append(db.Schemes[:i], db.Schemes[i+1:]...)
			return removed, true
		}
	}
	return model.Scheme{}, false
}

// RemoveModel deletes the model with id and returns it with the id of its former owner.
func (db *DB) RemoveModel(id string) (model.Model, string, bool) {
	for i := range db.Schemes {
		sc := &db.Schemes[i]
		for j := range sc.Models {
			if sc.Models[j].ID == id {
				removed := sc.Models[j]
				sc.Models = append(sc.Models[:j], sc.Models[j+1:]...)
				return removed, sc.ID, true
			}
		}
	}
	return model.Model{}, "", false
}

// Clone returns a deep copy.
func (db *DB) Clone() *DB {
	out := &DB{WorkspaceRoot: db.WorkspaceRoot, Schemes: make([]model.Scheme, len(db.Schemes))}
	for i, sc := range db.Schemes {
		sc.Models = append([]model.Model(nil), sc.Models...)
		out.Schemes[i] = sc
	}
	return out
}

// ModelCount is the total number of models across all schemes.
func (db *DB) ModelCount() int {
	n := 0
	for _, sc := range db.Schemes {
		n += len(sc.Models)
	}
	return n
}
