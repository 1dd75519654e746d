package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// renderRemarks renders remarks as Markdown. Plain text is returned when rendering fails.
func renderRemarks(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	style := styles.NoTTYStyle
	if isTerminal(os.Stdout) {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
