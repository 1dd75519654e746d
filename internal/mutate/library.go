package mutate

import (
	"os"
	"strings"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

type AddLibraryEntryInput struct {
	Name        string
	TemplateDir string
	Thumbnail   string
}

// AddLibraryEntry creates a user library entry in a fresh directory under the library root,
// optionally seeded from a template, and saves the library.
func AddLibraryEntry(lib *store.Library, in AddLibraryEntryInput, p scan.Patterns) (model.LibraryEntry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.LibraryEntry{}, ErrEmptyName
	}
	dir := lib.NewEntryDir(name)
	if err := fsutil.EnsureDir(dir); err != nil {
		return model.LibraryEntry{}, &IOError{Op: "create", Path: dir, Err: err}
	}
	if tpl := strings.TrimSpace(in.TemplateDir); tpl != "" {
		if err := fsutil.CopyTree(tpl, dir); err != nil {
			_ = os.RemoveAll(dir)
			return model.LibraryEntry{}, &IOError{Op: "copy", Path: tpl, Err: err}
		}
	}

	e := model.LibraryEntry{
		ID:        store.NewID(),
		Name:      name,
		Directory: fsutil.Canonicalize(dir),
		Deletable: true,
	}
	if err := applyThumbnail(e.Directory, &e.ThumbnailPath, in.Thumbnail); err != nil {
		_ = os.RemoveAll(dir)
		return model.LibraryEntry{}, err
	}
	if e.ThumbnailPath == "" {
		e.ThumbnailPath = scan.FindCover(e.Directory, p)
	}
	if err := lib.Add(e); err != nil {
		return e, &IOError{Op: "write", Path: lib.IndexPath(), Err: err}
	}
	return e, nil
}

// RemoveLibraryEntry deletes a user entry and its directory. Built-in entries are refused.
func RemoveLibraryEntry(lib *store.Library, id string) error {
	return lib.Remove(id)
}

// SetLibraryThumbnail replaces or clears a user entry's cover and saves the library.
func SetLibraryThumbnail(lib *store.Library, id, source string) error {
	e, ok := lib.Find(id)
	if !ok {
		return NotFoundError{Kind: "library entry", ID: id}
	}
	if !e.Deletable {
		return &PathInvalidError{Path: e.Directory, Err: os.ErrPermission}
	}
	if err := applyThumbnail(e.Directory, &e.ThumbnailPath, source); err != nil {
		return err
	}
	return lib.Save()
}
