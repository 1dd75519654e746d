package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
)

const LibraryIndexFileName = "library.json"

// Library is the per-user collection of reusable schemes. User entries live under Root and are
// listed in library.json; built-in entries are rediscovered under the template roots on every load.
type Library struct {
	Root         string
	CoverPattern string
	Entries      []model.LibraryEntry
}

type libraryFile struct {
	Schemes []libraryFileEntry `json:"schemes"`
}

type libraryFileEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Directory string `json:"directory"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (l *Library) IndexPath() string {
	return filepath.Join(l.Root, LibraryIndexFileName)
}

// LoadLibrary reads the library at root (creating the directory) and merges built-in templates
// found one level below each of builtinRoots. Entries are sorted by name.
func LoadLibrary(root string, builtinRoots []string, coverPattern string) (*Library, error) {
	if err := fsutil.EnsureDir(root); err != nil {
		return nil, err
	}
	lib := &Library{Root: fsutil.Canonicalize(root), CoverPattern: coverPattern}
	seen := map[string]bool{}

	var f libraryFile
	if b, err := os.ReadFile(lib.IndexPath()); err == nil {
		if err := json.Unmarshal(b, &f); err != nil {
			slog.Debug("library index corrupt; ignoring", "path", lib.IndexPath(), "error", err)
			f = libraryFile{}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		slog.Debug("library index unreadable; ignoring", "path", lib.IndexPath(), "error", err)
	}

	for _, fe := range f.Schemes {
		rel := strings.TrimSpace(fe.Directory)
		if rel == "" {
			continue
		}
		dir := rel
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(lib.Root, rel)
		}
		dir = fsutil.Canonicalize(dir)
		if !fsutil.IsDir(dir) || seen[dir] {
			continue
		}
		seen[dir] = true
		e := model.LibraryEntry{
			ID:        strings.TrimSpace(fe.ID),
			Name:      strings.TrimSpace(fe.Name),
			Directory: dir,
			Deletable: true,
		}
		if e.ID == "" {
			e.ID = NewID()
		}
		if e.Name == "" {
			e.Name = filepath.Base(dir)
		}
		if t := strings.TrimSpace(fe.Thumbnail); t != "" {
			if !filepath.IsAbs(t) {
				t = filepath.Join(dir, t)
			}
			if _, err := os.Stat(t); err == nil {
				e.ThumbnailPath = filepath.Clean(t)
			}
		}
		if e.ThumbnailPath == "" {
			e.ThumbnailPath, _ = fsutil.FirstMatch(dir, coverPattern)
		}
		lib.Entries = append(lib.Entries, e)
	}

	for _, root := range builtinRoots {
		ents, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, de := range ents {
			if !de.IsDir() {
				continue
			}
			dir := fsutil.Canonicalize(filepath.Join(root, de.Name()))
			if seen[dir] {
				continue
			}
			seen[dir] = true
			thumb, _ := fsutil.FirstMatch(dir, coverPattern)
			lib.Entries = append(lib.Entries, model.LibraryEntry{
				ID:            stableID(dir),
				Name:          de.Name(),
				Directory:     dir,
				ThumbnailPath: thumb,
				Deletable:     false,
			})
		}
	}

	lib.sort()
	return lib, nil
}

func (l *Library) sort() {
	sort.SliceStable(l.Entries, func(i, j int) bool {
		a, b := strings.ToLower(l.Entries[i].Name), strings.ToLower(l.Entries[j].Name)
		if a != b {
			return a < b
		}
		return l.Entries[i].Name < l.Entries[j].Name
	})
}

// Save writes library.json. Only deletable entries inside Root are persisted.
func (l *Library) Save() error {
	if err := fsutil.EnsureDir(l.Root); err != nil {
		return err
	}
	f := libraryFile{Schemes: []libraryFileEntry{}}
	for _, e := range l.Entries {
		if !e.Deletable || !fsutil.IsWithin(e.Directory, l.Root) {
			continue
		}
		rel, err := filepath.Rel(l.Root, e.Directory)
		if err != nil {
			continue
		}
		fe := libraryFileEntry{ID: e.ID, Name: e.Name, Directory: filepath.ToSlash(rel)}
		if e.ThumbnailPath != "" && fsutil.IsWithin(e.ThumbnailPath, e.Directory) {
			if r, err := filepath.Rel(e.Directory, e.ThumbnailPath); err == nil {
				fe.Thumbnail = filepath.ToSlash(r)
			}
		}
		f.Schemes = append(f.Schemes, fe)
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(l.Root, LibraryIndexFileName+".*.tmp", l.IndexPath(), append(b, '\n'), 0o644)
}

func (l *Library) Find(id string) (*model.LibraryEntry, bool) {
	for i := range l.Entries {
		if l.Entries[i].ID == id {
			return &l.Entries[i], true
		}
	}
	return nil, false
}

// Names is the case-insensitive name scope of the library.
func (l *Library) Names(excludeID string) NameSet {
	taken := NameSet{}
	for _, e := range l.Entries {
		if e.ID != excludeID {
			taken.Add(e.Name)
		}
	}
	return taken
}

// NewEntryDir reserves a fresh directory path under Root for an entry called name.
func (l *Library) NewEntryDir(name string) string {
	return fsutil.UniqueChildPath(l.Root, fsutil.DirName(name, "scheme"))
}

// Add inserts e, keeps the list sorted and saves.
func (l *Library) Add(e model.LibraryEntry) error {
	l.Entries = append(l.Entries, e)
	l.sort()
	return l.Save()
}

// Remove deletes a user entry together with its directory. Built-in entries cannot be removed.
func (l *Library) Remove(id string) error {
	for i := range l.Entries {
		e := l.Entries[i]
		if e.ID != id {
			continue
		}
		if !e.Deletable {
			return fmt.Errorf("library entry %q is built in", e.Name)
		}
		if fsutil.IsWithin(e.Directory, l.Root) && !fsutil.SamePath(e.Directory, l.Root) {
			if err := os.RemoveAll(e.Directory); err != nil {
				return err
			}
		}
		l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
		return l.Save()
	}
	return NotFoundError{Kind: "library entry", ID: id}
}

// AvailableTemplates lists directories that can seed a new scheme: subdirectories of the template
// roots followed by user library entries, without duplicates.
func AvailableTemplates(templateRoots []string, lib *Library) []model.Template {
	var out []model.Template
	seen := map[string]bool{}
	for _, root := range templateRoots {
		ents, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, de := range ents {
			if !de.IsDir() {
				continue
			}
			dir := fsutil.Canonicalize(filepath.Join(root, de.Name()))
			if seen[dir] {
				continue
			}
			seen[dir] = true
			out = append(out, model.Template{Name: de.Name(), Directory: dir})
		}
	}
	if lib != nil {
		for _, e := range lib.Entries {
			if seen[e.Directory] {
				continue
			}
			seen[e.Directory] = true
			out = append(out, model.Template{Name: e.Name, Directory: e.Directory})
		}
	}
	return out
}
