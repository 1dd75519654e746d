package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/asd977/FlexSimulate/internal/activity"
	"github.com/asd977/FlexSimulate/internal/nav"
)

const minDetailWidth = 24

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	header := m.viewHeader()
	footer := m.viewFooter()
	var logPane string
	if m.showLog {
		logPane = m.viewLog()
	}

	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if logPane != "" {
		bodyH -= lipgloss.Height(logPane)
	}
	bodyH = max(bodyH, 1)

	treeW := m.width
	detailW := 0
	if m.width >= 2*minDetailWidth {
		treeW = max(m.width*2/5, minDetailWidth)
		detailW = m.width - treeW
	}

	body := normalizePane(m.viewTree(treeW, bodyH), treeW, bodyH)
	if detailW > 0 {
		// The pane style adds a left border and one column of padding.
		inner := detailW - 2
		detail := stylePane().Render(normalizePane(m.viewDetail(inner), inner, bodyH))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, detail)
	}

	parts := []string{header, body}
	if logPane != "" {
		parts = append(parts, logPane)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m appModel) viewHeader() string {
	pc := m.sess.Project()
	title := "flexsim"
	sub := "no project open; press o to open one"
	if pc.IsOpen() {
		title += " · " + pc.Name()
		sub = pc.Root
	}
	line := styleHeader().Render(truncate(title, m.width))
	return line + "\n" + styleChrome().Render(truncate(sub, m.width))
}

func (m appModel) viewTree(width, height int) string {
	if len(m.rows) == 0 {
		return styleMuted().Render("empty")
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.rows[i]
		k := r.key()
		stale := false
		if sn, ok := r.item.Node.(nav.SchemeNode); ok {
			stale = m.stale[sn.ID]
		}
		line := truncate(renderRow(r, m.collapsed[k], stale), width)

		switch {
		case i == m.cursor:
			line = styleSelectedRow().Render(line)
		case stale:
			line = styleStale().Render(line)
		default:
			switch r.item.Node.(type) {
			case nav.ProjectNode, nav.LibraryNode:
				line = styleHeader().Render(line)
			case nav.SchemeNode:
				line = styleScheme().Render(line)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewDetail(width int) string {
	info := m.sess.Nav().Selection()
	if info.Node == nil {
		return styleMuted().Render("nothing selected")
	}

	var meta []string
	pc := m.sess.Project()
	switch n := info.Node.(type) {
	case nav.LibraryNode:
		meta = append(meta, "library root", m.sess.Settings().LibraryRoot)
	case nav.ProjectNode:
		if pc.IsOpen() {
			meta = append(meta, fmt.Sprintf("%s, %s", plural(len(pc.DB.Schemes), "scheme"), plural(pc.DB.ModelCount(), "model")))
		}
	case nav.SchemeNode:
		if !pc.IsOpen() {
			break
		}
		if sc, ok := pc.DB.FindScheme(n.ID); ok {
			meta = append(meta, "scheme · "+plural(len(sc.Models), "model"))
			if sc.ThumbnailPath != "" {
				meta = append(meta, "thumbnail "+filepath.Base(sc.ThumbnailPath))
			}
		}
		if m.stale[n.ID] {
			meta = append(meta, styleStale().Render("changed on disk; press R to rescan"))
		}
	case nav.ModelNode:
		if !pc.IsOpen() {
			break
		}
		if md, _, ok := pc.DB.FindModel(n.ID); ok {
			meta = append(meta, "model · config "+filepath.Base(md.ConfigPath))
			if md.ScriptPath != "" {
				meta = append(meta, "script "+filepath.Base(md.ScriptPath))
			}
		}
		if m.running[n.ID] {
			meta = append(meta, "running…")
		}
	}

	lines := []string{styleHeader().Render(truncate(info.Name, width))}
	if info.Path != "" {
		lines = append(lines, styleChrome().Render(wrapPath(info.Path, width)))
	}
	for _, s := range meta {
		lines = append(lines, styleMuted().Render(truncate(s, width)))
	}
	if remarks := renderRemarks(info.Remarks, width); remarks != "" {
		lines = append(lines, "", remarks)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewLog() string {
	lines := []string{styleChrome().Render(strings.Repeat("─", m.width))}
	if len(m.logTail) == 0 {
		lines = append(lines, styleMuted().Render("no activity yet"))
	}
	for _, e := range m.logTail {
		lines = append(lines, styleLogLevel(e.Level != activity.LevelInfo).Render(truncate(e.String(), m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewFooter() string {
	switch m.mode {
	case modeRename, modeImport, modeOpen:
		return joinNonEmpty(
			styleHeader().Render(truncate(m.promptLabel, m.width)),
			m.input.View(),
			styleMuted().Render("enter: confirm   esc: cancel"),
		)
	case modeConfirmDelete:
		kind := nodeKind(m.pending)
		name := ""
		if it := m.sess.Nav().Tree().Find(m.pending.Key()); it != nil {
			name = it.Text
		}
		return joinNonEmpty(
			styleStatus(true).Render(truncate(fmt.Sprintf("Delete %s %q?", kind, name), m.width)),
			styleMuted().Render(truncate("y: remove record   f: also delete its folder   n: cancel", m.width)),
		)
	}
	status := ""
	if m.status != "" {
		status = styleStatus(m.statusErr).Render(truncate(m.status, m.width))
	}
	return joinNonEmpty(status, m.help.View(m.keys))
}
