package store

import (
	"errors"
	"path/filepath"
)

var ErrNoProject = errors.New("no project is open")

// ProjectContext is the active project. The zero value means no project is open.
type ProjectContext struct {
	Root string
	DB   *DB
}

func (p ProjectContext) IsOpen() bool {
	return p.Root != "" && p.DB != nil
}

func (p ProjectContext) Store() Store {
	return Store{Dir: p.Root}
}

// Name is the project directory's base name, or "" when no project is open.
func (p ProjectContext) Name() string {
	if !p.IsOpen() {
		return ""
	}
	return filepath.Base(p.Root)
}

// Save writes the project's index.
func (p ProjectContext) Save() error {
	if !p.IsOpen() {
		return ErrNoProject
	}
	return p.Store().Save(p.DB)
}
