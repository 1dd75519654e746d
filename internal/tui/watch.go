package tui

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
	"github.com/asd977/FlexSimulate/internal/watcher"
)

// watchState keeps one watcher over the open project's scheme directories. A nil factory
// disables watching.
type watchState struct {
	factory func(roots []string) *watcher.Watcher

	w     *watcher.Watcher
	roots []string
}

// sync restarts the watcher when the set of roots changed.
func (ws *watchState) sync(roots []string) {
	if ws == nil || ws.factory == nil {
		return
	}
	sort.Strings(roots)
	if slices.Equal(roots, ws.roots) {
		return
	}
	ws.stop()
	ws.roots = roots
	if len(roots) == 0 {
		return
	}
	w := ws.factory(roots)
	if err := w.Start(); err != nil {
		slog.Warn("could not watch scheme folders", "error", err)
		return
	}
	ws.w = w
	slog.Debug("watching scheme folders", "count", len(roots))
}

func (ws *watchState) stop() {
	if ws == nil || ws.w == nil {
		return
	}
	ws.w.Stop()
	ws.w = nil
}

func (m *appModel) watchRoots() []string {
	pc := m.sess.Project()
	if !pc.IsOpen() {
		return nil
	}
	roots := make([]string, 0, len(pc.DB.Schemes))
	for _, sc := range pc.DB.Schemes {
		roots = append(roots, sc.WorkingDirectory)
	}
	return roots
}

// markStale flags schemes whose model folders on disk no longer match their records, and
// clears the flag on schemes that match again.
func (m *appModel) markStale(roots []string) {
	pc := m.sess.Project()
	if !pc.IsOpen() {
		return
	}
	for _, root := range roots {
		sc, ok := pc.DB.SchemeByWorkingDirectory(fsutil.Canonicalize(root))
		if !ok {
			continue
		}
		if schemeOutOfDate(pc.DB, *sc, m.sess.Patterns()) {
			m.stale[sc.ID] = true
		} else {
			delete(m.stale, sc.ID)
		}
	}
	if n := len(m.stale); n > 0 {
		m.setStatus(plural(n, "scheme")+" changed on disk; press R to rescan", false)
	}
}

// schemeOutOfDate reports whether a model folder under the scheme's directory is unknown to the
// project, or one of the scheme's models lost its folder. Models moved between schemes keep
// their folders, so bindings are checked project-wide.
func schemeOutOfDate(db *store.DB, sc model.Scheme, p scan.Patterns) bool {
	bound := map[string]bool{}
	for _, other := range db.Schemes {
		for _, md := range other.Models {
			bound[fsutil.Canonicalize(md.Directory)] = true
		}
	}
	for _, mf := range scan.ModelFolders(sc.WorkingDirectory, p) {
		if !bound[mf.Dir] {
			return true
		}
	}
	for _, md := range sc.Models {
		if _, ok := scan.IsModelFolder(md.Directory, p); !ok {
			return true
		}
	}
	return false
}
