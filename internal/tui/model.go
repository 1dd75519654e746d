package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asd977/FlexSimulate/internal/activity"
	"github.com/asd977/FlexSimulate/internal/nav"
	"github.com/asd977/FlexSimulate/internal/project"
	"github.com/asd977/FlexSimulate/internal/runner"
	"github.com/asd977/FlexSimulate/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeImport
	modeOpen
	modeConfirmDelete
)

const logPaneLines = 6

// fsChangedMsg carries the watched scheme directories that changed on disk.
type fsChangedMsg struct {
	roots []string
}

type runFinishedMsg struct {
	modelID string
	name    string
	res     runner.Result
	err     error
}

type appModel struct {
	ctx  context.Context
	sess *project.Session

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode        mode
	promptLabel string
	pending     nav.Node

	rows      []row
	cursor    int
	collapsed map[string]bool
	// stale holds ids of schemes whose folders no longer match their records.
	stale   map[string]bool
	running map[string]bool
	showLog bool
	logTail []activity.Entry

	status    string
	statusErr bool

	width  int
	height int

	watch *watchState
}

func newAppModel(ctx context.Context, sess *project.Session) appModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096

	m := appModel{
		ctx:       ctx,
		sess:      sess,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     ti,
		collapsed: map[string]bool{},
		stale:     map[string]bool{},
		running:   map[string]bool{},
		watch:     &watchState{},
	}
	m.loadUIState()
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case fsChangedMsg:
		m.markStale(msg.roots)
		return m, nil

	case runFinishedMsg:
		m.finishRun(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRename, modeImport, modeOpen:
			return m.updatePrompt(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.inPrompt() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveUIState()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Collapse):
		m.collapseOrParent()
	case key.Matches(msg, m.keys.Expand):
		if it := m.current(); it != nil {
			delete(m.collapsed, it.Node.Key())
			m.refresh()
		}
	case key.Matches(msg, m.keys.Toggle):
		if it := m.current(); it != nil && len(it.Children) > 0 {
			k := it.Node.Key()
			if m.collapsed[k] {
				delete(m.collapsed, k)
			} else {
				m.collapsed[k] = true
			}
			m.refresh()
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.reorder(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.reorder(1)
	case key.Matches(msg, m.keys.Rename):
		return m, m.beginRename()
	case key.Matches(msg, m.keys.Import):
		if !m.sess.Project().IsOpen() {
			m.setStatus(store.ErrNoProject.Error()+"; press o to open one", true)
			return m, nil
		}
		return m, m.beginPrompt(modeImport, importPromptLabel(m.sess.Nav().Selected()), "")
	case key.Matches(msg, m.keys.Open):
		return m, m.beginPrompt(modeOpen, "Open project directory", m.sess.Project().Root)
	case key.Matches(msg, m.keys.Delete):
		m.beginDelete()
	case key.Matches(msg, m.keys.Rescan):
		m.rescan()
	case key.Matches(msg, m.keys.Run):
		return m, m.runModel()
	case key.Matches(msg, m.keys.CopyPath):
		m.copyPath()
	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, promptKeys.Cancel):
		if m.mode == modeRename {
			m.sess.Nav().Tree().CancelEdit()
		}
		m.endPrompt()
		return m, nil
	case key.Matches(msg, promptKeys.Submit):
		value := m.input.Value()
		md := m.mode
		m.endPrompt()
		switch md {
		case modeRename:
			m.submitRename(value)
		case modeImport:
			m.submitImport(value)
		case modeOpen:
			m.submitOpen(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		m.deletePending(false)
	case key.Matches(msg, confirmKeys.WithFiles):
		m.deletePending(true)
	case key.Matches(msg, confirmKeys.No):
		m.pending = nil
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *appModel) inPrompt() bool {
	return m.mode == modeRename || m.mode == modeImport || m.mode == modeOpen
}

func (m *appModel) beginPrompt(md mode, label, value string) tea.Cmd {
	m.mode = md
	m.promptLabel = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *appModel) endPrompt() {
	m.mode = modeBrowse
	m.promptLabel = ""
	m.input.Blur()
	m.input.Reset()
}

func (m *appModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// current is the item under the cursor.
func (m *appModel) current() *nav.Item {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].item
}

// refresh re-reads the tree after any change, keeping the cursor on the selected record.
func (m *appModel) refresh() {
	r := m.sess.Nav()
	m.rows = flattenTree(r.Tree(), m.collapsed)
	if sel := r.Selected(); sel != nil {
		if i := rowIndex(m.rows, sel.Key()); i >= 0 {
			m.cursor = i
		}
	}
	m.cursor = min(max(m.cursor, 0), max(len(m.rows)-1, 0))
	m.syncSelection()
	m.refreshLog()
	m.watch.sync(m.watchRoots())
}

func (m *appModel) syncSelection() {
	it := m.current()
	if it == nil {
		return
	}
	r := m.sess.Nav()
	if sel := r.Selected(); sel == nil || sel.Key() != it.Node.Key() {
		r.Select(it.Node)
	}
}

func (m *appModel) refreshLog() {
	entries, err := m.sess.Log().Tail(m.ctx, logPaneLines)
	if err != nil {
		slog.Debug("activity tail failed", "error", err)
		return
	}
	m.logTail = entries
}

func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.syncSelection()
}

func (m *appModel) collapseOrParent() {
	it := m.current()
	if it == nil {
		return
	}
	k := it.Node.Key()
	if len(it.Children) > 0 && !m.collapsed[k] {
		m.collapsed[k] = true
		m.refresh()
		return
	}
	if p := it.Parent(); p != nil {
		if i := rowIndex(m.rows, p.Node.Key()); i >= 0 {
			m.cursor = i
			m.syncSelection()
		}
	}
}

func (m *appModel) loadUIState() {
	m.collapsed = map[string]bool{}
	m.showLog = false
	pc := m.sess.Project()
	if !pc.IsOpen() {
		return
	}
	st, err := pc.Store().LoadUIState()
	if err != nil {
		slog.Debug("ui state unreadable", "error", err)
		return
	}
	for k, v := range st.Collapsed {
		if v {
			m.collapsed[k] = true
		}
	}
	m.showLog = st.ShowLog
	if st.SelectedID != "" {
		if it := m.sess.Nav().Tree().Find(st.SelectedID); it != nil {
			m.sess.Nav().Select(it.Node)
		}
	}
}

func (m *appModel) saveUIState() {
	pc := m.sess.Project()
	if !pc.IsOpen() {
		return
	}
	tree := m.sess.Nav().Tree()
	st := &store.UIState{Version: 1, ShowLog: m.showLog}
	for k := range m.collapsed {
		if tree.Find(k) == nil {
			continue
		}
		if st.Collapsed == nil {
			st.Collapsed = map[string]bool{}
		}
		st.Collapsed[k] = true
	}
	if sel := m.sess.Nav().Selected(); sel != nil {
		st.SelectedID = sel.Key()
	}
	if err := pc.Store().SaveUIState(st); err != nil {
		slog.Warn("could not save ui state", "error", err)
	}
}

func importPromptLabel(target nav.Node) string {
	switch target.(type) {
	case nav.SchemeNode, nav.ModelNode:
		return "Model folders to move into the selected scheme"
	default:
		return "Scheme folders to import"
	}
}

func nodeKind(n nav.Node) string {
	switch n.(type) {
	case nav.SchemeNode:
		return "scheme"
	case nav.ModelNode:
		return "model"
	case nav.ProjectNode:
		return "project"
	case nav.LibraryNode:
		return "library"
	default:
		return ""
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
