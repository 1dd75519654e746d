package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/nav"
	"github.com/asd977/FlexSimulate/internal/runner"
	"github.com/asd977/FlexSimulate/internal/store"
)

func (m *appModel) beginRename() tea.Cmd {
	it := m.current()
	if it == nil || !nav.Editable(it.Node) {
		m.setStatus("only schemes and models can be renamed", true)
		return nil
	}
	m.sess.Nav().Tree().BeginEdit(it)
	return m.beginPrompt(modeRename, "Rename "+nodeKind(it.Node), it.Text)
}

// submitRename commits the in-place edit through the reconciler. A rejected name leaves the row
// showing its previous text.
func (m *appModel) submitRename(text string) {
	r := m.sess.Nav()
	it := r.Tree().Editing()
	if it == nil {
		return
	}
	if err := r.EditText(it, text); err != nil {
		m.setStatus(renameError(nodeKind(it.Node), err), true)
	}
	m.refresh()
}

func renameError(kind string, err error) string {
	var nc *mutate.NameConflictError
	switch {
	case errors.Is(err, mutate.ErrEmptyName):
		return kind + " name cannot be empty"
	case errors.As(err, &nc):
		return fmt.Sprintf("a %s named %q already exists", kind, nc.Name)
	default:
		return err.Error()
	}
}

// splitPaths accepts a path list separated by the OS list separator or newlines.
func splitPaths(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for _, p := range filepath.SplitList(line) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (m *appModel) submitImport(value string) {
	paths := splitPaths(value)
	if len(paths) == 0 {
		return
	}
	target := m.sess.Nav().Selected()
	if _, ok := target.(nav.LibraryNode); ok {
		target = nil
	}
	res, err := m.sess.Nav().HandleExternalDrop(paths, target)
	m.refresh()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	for _, id := range res.SchemeIDs {
		delete(m.stale, id)
	}
	msg := fmt.Sprintf("imported %s, %s", plural(len(res.SchemeIDs), "scheme"), plural(len(res.ModelIDs), "model"))
	if n := len(res.Failures); n > 0 {
		msg += fmt.Sprintf("; %d failed (see log)", n)
	}
	m.setStatus(msg, len(res.Failures) > 0)
}

func (m *appModel) submitOpen(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	m.saveUIState()
	if err := m.sess.OpenProjectAt(m.ctx, path, false); err != nil {
		m.setStatus("could not open project: "+err.Error(), true)
		return
	}
	m.stale = map[string]bool{}
	m.cursor = 0
	m.loadUIState()
	m.refresh()
	m.setStatus("opened "+m.sess.Project().Root, false)
}

func (m *appModel) beginDelete() {
	it := m.current()
	if it == nil || !nav.Editable(it.Node) {
		m.setStatus("only schemes and models can be deleted", true)
		return
	}
	m.pending = it.Node
	m.mode = modeConfirmDelete
}

func (m *appModel) deletePending(withFiles bool) {
	target := m.pending
	m.pending = nil
	m.mode = modeBrowse

	var kind, name string
	err := m.sess.Nav().Commit(func(db *store.DB) (bool, error) {
		switch n := target.(type) {
		case nav.SchemeNode:
			kind = "scheme"
			res, err := mutate.RemoveScheme(db, n.ID, withFiles)
			name = res.Scheme.Name
			return res.Scheme.ID != "", err
		case nav.ModelNode:
			kind = "model"
			res, err := mutate.RemoveModel(db, n.ID, withFiles)
			name = res.Model.Name
			return res.Model.ID != "", err
		}
		return false, nil
	})
	if sn, ok := target.(nav.SchemeNode); ok {
		delete(m.stale, sn.ID)
	}
	if name != "" {
		m.sess.Log().Info(fmt.Sprintf("deleted %s %q", kind, name))
	}
	m.refresh()
	if err != nil {
		m.sess.Log().Warn(err.Error())
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("deleted %s %q", kind, name), false)
}

// reorder moves the current scheme or model one place. A model at either end of its scheme
// moves into the neighbouring scheme and is renamed there if its name is taken.
func (m *appModel) reorder(delta int) {
	it := m.current()
	if it == nil || !nav.Editable(it.Node) {
		return
	}
	r := m.sess.Nav()
	tree := r.Tree()
	idx, siblings := siblingIndex(tree, it)
	to := idx + delta
	if to >= 0 && to < len(siblings) {
		if err := r.Drag(it, it.Parent(), to); err != nil {
			m.setStatus(err.Error(), true)
		}
		m.refresh()
		return
	}

	mn, ok := it.Node.(nav.ModelNode)
	if !ok || it.Parent() == nil {
		return
	}
	pIdx, schemes := siblingIndex(tree, it.Parent())
	np := pIdx + delta
	if np < 0 || np >= len(schemes) {
		return
	}
	target := schemes[np]
	sn, ok := target.Node.(nav.SchemeNode)
	if !ok {
		return
	}
	index := 0
	if delta < 0 {
		index = len(target.Children)
	}
	delete(m.collapsed, target.Node.Key())
	err := r.Commit(func(db *store.DB) (bool, error) {
		return mutate.MoveModel(db, mn.ID, sn.ID, index)
	})
	if err != nil {
		m.setStatus(err.Error(), true)
	}
	m.refresh()
}

func (m *appModel) selectedSchemeID() string {
	it := m.current()
	if it == nil {
		return ""
	}
	if _, ok := it.Node.(nav.ModelNode); ok {
		return m.sess.Nav().DropTargetScheme(it.Node)
	}
	if sn, ok := it.Node.(nav.SchemeNode); ok {
		return sn.ID
	}
	return ""
}

// rescan replaces the selected scheme's models with what is on disk. Model ids and remarks are
// not carried over.
func (m *appModel) rescan() {
	id := m.selectedSchemeID()
	if id == "" {
		m.setStatus("select a scheme to rescan", true)
		return
	}
	var name string
	var count int
	err := m.sess.Nav().Commit(func(db *store.DB) (bool, error) {
		sc, err := mutate.RescanScheme(db, id, m.sess.Patterns())
		if err != nil {
			return false, err
		}
		name, count = sc.Name, len(sc.Models)
		return true, nil
	})
	m.refresh()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	delete(m.stale, id)
	msg := fmt.Sprintf("rescanned scheme %q: %s", name, plural(count, "model"))
	m.sess.Log().Info(msg)
	m.setStatus(msg, false)
}

// runModel starts the selected model's script in the background.
func (m *appModel) runModel() tea.Cmd {
	it := m.current()
	if it == nil {
		return nil
	}
	mn, ok := it.Node.(nav.ModelNode)
	if !ok {
		m.setStatus("select a model to run", true)
		return nil
	}
	pc := m.sess.Project()
	if !pc.IsOpen() {
		return nil
	}
	found, _, ok := pc.DB.FindModel(mn.ID)
	if !ok {
		return nil
	}
	if m.running[mn.ID] {
		m.setStatus(fmt.Sprintf("model %q is already running", found.Name), true)
		return nil
	}
	rec := *found
	settings := m.sess.Settings()
	ctx := m.ctx
	m.running[mn.ID] = true
	m.setStatus(fmt.Sprintf("running %q…", rec.Name), false)
	slog.Info("model run started", "model", rec.ID)

	return func() tea.Msg {
		res, err := runner.Run(ctx, rec, settings)
		return runFinishedMsg{modelID: rec.ID, name: rec.Name, res: res, err: err}
	}
}

func (m *appModel) finishRun(msg runFinishedMsg) {
	delete(m.running, msg.modelID)
	var text string
	switch {
	case msg.err != nil:
		text = fmt.Sprintf("model %q could not run: %v", msg.name, msg.err)
		m.sess.Log().Warn(text)
		m.setStatus(text, true)
	case !msg.res.OK():
		text = fmt.Sprintf("model %q exited with code %d", msg.name, msg.res.ExitCode)
		m.sess.Log().Warn(text)
		m.setStatus(text, true)
	default:
		text = fmt.Sprintf("model %q finished in %s", msg.name, msg.res.Duration.Round(time.Millisecond))
		if msg.res.Artifact != "" {
			text += "; produced " + filepath.Base(msg.res.Artifact)
		}
		m.sess.Log().Info(text)
		m.setStatus(text, false)
	}
	m.refreshLog()
}

func (m *appModel) copyPath() {
	info := m.sess.Nav().Selection()
	if info.Path == "" {
		m.setStatus("nothing to copy", true)
		return
	}
	if err := copyToClipboard(info.Path); err != nil {
		m.setStatus("copy failed: "+err.Error(), true)
		return
	}
	m.setStatus("copied "+info.Path, false)
}
