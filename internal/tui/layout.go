package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// truncate cuts s to at most width terminal columns, ANSI-aware, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Truncate(s, 1, "")
	}
	return xansi.Truncate(s, width, "…")
}

// normalizePane forces s to exactly width columns and height lines so that panes joined with
// lipgloss.JoinHorizontal stay aligned.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		ln = truncate(ln, width)
		if w := xansi.StringWidth(ln); w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// wrapPath breaks a long path across lines of width columns without splitting escapes.
func wrapPath(p string, width int) string {
	if width <= 0 || xansi.StringWidth(p) <= width {
		return p
	}
	return xansi.Hardwrap(p, width, true)
}
