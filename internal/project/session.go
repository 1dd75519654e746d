// Package project owns the active-project lifecycle: opening, creating and closing projects,
// and the startup resolution of the last project used.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/asd977/FlexSimulate/internal/activity"
	"github.com/asd977/FlexSimulate/internal/config"
	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/nav"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

var ErrProjectNotEmpty = errors.New("project directory already exists and is not empty")

// Session holds the active project together with the reconciler that displays it and the
// project's activity log. A Session is not safe for concurrent use.
type Session struct {
	settings config.Settings
	patterns scan.Patterns
	nav      *nav.Reconciler
	log      activity.Log
}

// NewSession starts in the projectless state. tree may be nil.
func NewSession(settings config.Settings, tree *nav.Tree) *Session {
	mem := activity.NewMemory(500)
	p := scan.PatternsFrom(settings)
	s := &Session{
		settings: settings,
		patterns: p,
		nav:      nav.New(tree, p, mem),
		log:      mem,
	}
	s.nav.Rebuild()
	return s
}

func (s *Session) Settings() config.Settings { return s.settings }

func (s *Session) Patterns() scan.Patterns { return s.patterns }

func (s *Session) Nav() *nav.Reconciler { return s.nav }

func (s *Session) Project() store.ProjectContext { return s.nav.Project() }

// Log is the activity log of the open project, or an in-memory log when none is open.
func (s *Session) Log() activity.Log { return s.log }

// Library loads the scheme library from the configured library root and template roots.
func (s *Session) Library() (*store.Library, error) {
	return store.LoadLibrary(s.settings.LibraryRoot, s.settings.TemplateRoots, s.settings.CoverPattern)
}

// Templates lists what a new scheme can be created from.
func (s *Session) Templates() ([]model.Template, error) {
	lib, err := s.Library()
	if err != nil {
		return nil, err
	}
	return store.AvailableTemplates(s.settings.TemplateRoots, lib), nil
}

// OpenProjectAt makes path the active project, creating its directory structure when needed.
// Opening the project that is already active only rebuilds the tree and leaves the disk alone.
// A missing or unreadable index is replaced by a fresh, empty one.
func (s *Session) OpenProjectAt(ctx context.Context, path string, silent bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return &mutate.PathInvalidError{Path: path, Err: os.ErrNotExist}
	}
	root := fsutil.Canonicalize(path)
	if root == "" {
		return &mutate.PathInvalidError{Path: path, Err: os.ErrNotExist}
	}
	if cur := s.Project(); cur.IsOpen() && fsutil.SamePath(cur.Root, root) {
		s.nav.Rebuild()
		return nil
	}

	if err := ensureStructure(root); err != nil {
		return err
	}
	root = fsutil.Canonicalize(root)

	st := store.Store{Dir: root}
	db, loaded, err := st.Load()
	if err != nil {
		return err
	}
	db.WorkspaceRoot = st.DefaultWorkspaceRoot()
	if !loaded {
		if err := st.Save(db); err != nil {
			return &mutate.IOError{Op: "write", Path: st.IndexPath(), Err: err}
		}
	}

	s.closeLog()
	s.log = openLog(ctx, root)
	s.nav.SetReporter(s.log)
	s.nav.SetProject(store.ProjectContext{Root: root, DB: db})

	if !silent {
		s.log.Info(fmt.Sprintf("opened project %s", root))
	}
	slog.Info("project opened", "root", root, "schemes", len(db.Schemes), "fresh", !loaded)
	saveLastProject(root)
	return nil
}

// EnterProjectless closes the active project, if any, and forgets it as the last project.
func (s *Session) EnterProjectless() {
	s.closeLog()
	mem := activity.NewMemory(500)
	s.log = mem
	s.nav.SetReporter(mem)
	s.nav.SetProject(store.ProjectContext{})
	saveLastProject("")
}

// Startup reopens the last project silently, falling back to the projectless state when there
// is none or it can no longer be opened. It reports whether a project is open afterwards.
func (s *Session) Startup(ctx context.Context) bool {
	st, err := store.LoadAppState()
	if err != nil {
		slog.Debug("app state unreadable", "error", err)
		st = &store.AppState{}
	}
	if last := st.LastProject; last != "" && fsutil.IsDir(last) {
		err := s.OpenProjectAt(ctx, last, true)
		if err == nil {
			return true
		}
		slog.Debug("last project could not be reopened", "path", last, "error", err)
	}
	s.EnterProjectless()
	return false
}

// CreateProject creates <parent>/<name> with its workspace directory and opens it. An existing
// directory is only accepted when empty.
func (s *Session) CreateProject(ctx context.Context, parent, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", mutate.ErrEmptyName
	}
	path := filepath.Join(parent, name)
	if entries, err := os.ReadDir(path); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("%s: %w", path, ErrProjectNotEmpty)
	}
	if err := ensureStructure(path); err != nil {
		return "", err
	}
	if err := s.OpenProjectAt(ctx, path, false); err != nil {
		return "", err
	}
	s.log.Info(fmt.Sprintf("created project %s", name))
	return s.Project().Root, nil
}

// Close releases the activity log. The session stays usable in the projectless state.
func (s *Session) Close() error {
	err := s.closeLog()
	mem := activity.NewMemory(500)
	s.log = mem
	s.nav.SetReporter(mem)
	return err
}

func (s *Session) closeLog() error {
	if s.log == nil {
		return nil
	}
	err := s.log.Close()
	s.log = nil
	return err
}

func ensureStructure(root string) error {
	if err := fsutil.EnsureDir(root); err != nil {
		return &mutate.IOError{Op: "create", Path: root, Err: err}
	}
	ws := filepath.Join(root, store.WorkspacesDirName)
	if err := fsutil.EnsureDir(ws); err != nil {
		return &mutate.IOError{Op: "create", Path: ws, Err: err}
	}
	return nil
}

// openLog falls back to an in-memory log so a read-only project stays usable.
func openLog(ctx context.Context, root string) activity.Log {
	l, err := activity.Open(ctx, root)
	if err != nil {
		slog.Warn("activity log unavailable; keeping entries in memory", "root", root, "error", err)
		return activity.NewMemory(500)
	}
	return l
}

func saveLastProject(root string) {
	if err := store.SaveAppState(&store.AppState{LastProject: root}); err != nil {
		slog.Debug("app state not saved", "error", err)
	}
}
