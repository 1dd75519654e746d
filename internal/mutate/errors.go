package mutate

import (
	"errors"
	"fmt"

	"github.com/asd977/FlexSimulate/internal/store"
)

type NotFoundError = store.NotFoundError

var (
	ErrEmptyName = errors.New("name is empty")
	ErrNoProject = store.ErrNoProject
	// ErrNotModelSource marks an import path that holds no model folder at any depth we look at.
	ErrNotModelSource = errors.New("not a model folder and contains no model folders")
)

// NameConflictError is returned by interactive renames. Imports never return it: they suffix instead.
type NameConflictError struct {
	Kind string
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("%s name %q is already in use", e.Kind, e.Name)
}

type PathInvalidError struct {
	Path string
	Err  error
}

func (e *PathInvalidError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid path: %s", e.Path)
	}
	return fmt.Sprintf("invalid path %s: %v", e.Path, e.Err)
}

func (e *PathInvalidError) Unwrap() error { return e.Err }

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ImportFailure is one item of a batch that could not be imported. The batch itself continues.
type ImportFailure struct {
	Path string
	Err  error
}

func (f ImportFailure) Error() string {
	return f.Err.Error()
}
