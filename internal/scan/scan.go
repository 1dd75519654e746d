// Package scan recognizes model and scheme folders on disk. It never mutates the filesystem.
package scan

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/asd977/FlexSimulate/internal/config"
	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/store"
)

// Patterns are case-insensitive file-name globs.
type Patterns struct {
	Config string
	Script string
	Cover  string
}

func DefaultPatterns() Patterns {
	return PatternsFrom(config.Default())
}

func PatternsFrom(s config.Settings) Patterns {
	return Patterns{Config: s.ConfigPattern, Script: s.ScriptPattern, Cover: s.CoverPattern}
}

// ModelFolder is a directory that qualifies as a model folder.
type ModelFolder struct {
	Dir        string
	ConfigPath string
	// ScriptPath is empty when the folder has no script.
	ScriptPath string
}

// IsModelFolder reports whether dir holds at least one config file. The first config and
// script match in lexical order are used.
func IsModelFolder(dir string, p Patterns) (ModelFolder, bool) {
	if !fsutil.IsDir(dir) {
		return ModelFolder{}, false
	}
	dir = fsutil.Canonicalize(dir)
	cfg, ok := fsutil.FirstMatch(dir, p.Config)
	if !ok {
		return ModelFolder{}, false
	}
	script, _ := fsutil.FirstMatch(dir, p.Script)
	return ModelFolder{Dir: dir, ConfigPath: cfg, ScriptPath: script}, true
}

// ModelFolders returns the immediate subdirectories of dir that are model folders, in lexical
// order. Other subdirectories are skipped without recursing.
func ModelFolders(dir string, p Patterns) []ModelFolder {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []ModelFolder
	for _, name := range names {
		if mf, ok := IsModelFolder(filepath.Join(dir, name), p); ok {
			out = append(out, mf)
		}
	}
	return out
}

// IsSchemeFolder reports whether dir has at least one model-folder child.
func IsSchemeFolder(dir string, p Patterns) bool {
	return len(ModelFolders(dir, p)) > 0
}

// NewModel builds a record for mf with a fresh id, named after the folder.
func NewModel(mf ModelFolder) model.Model {
	return model.Model{
		ID:         store.NewID(),
		Name:       filepath.Base(mf.Dir),
		Directory:  mf.Dir,
		ConfigPath: mf.ConfigPath,
		ScriptPath: mf.ScriptPath,
	}
}

// ScanSchemeFolder builds model records for every model folder directly under dir. Every record
// gets a fresh id; colliding names are suffixed in discovery order.
func ScanSchemeFolder(dir string, p Patterns) []model.Model {
	folders := ModelFolders(dir, p)
	out := make([]model.Model, 0, len(folders))
	taken := store.NameSet{}
	for _, mf := range folders {
		m := NewModel(mf)
		m.Name = store.UniqueName(m.Name, taken, store.FallbackModelName)
		out = append(out, m)
	}
	return out
}

// FindCover returns the first cover image inside dir, or "".
func FindCover(dir string, p Patterns) string {
	cover, _ := fsutil.FirstMatch(dir, p.Cover)
	return cover
}
