package tui

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"scheme", 10, "scheme"},
		{"scheme", 6, "scheme"},
		{"scheme", 4, "sch…"},
		{"scheme", 1, "s"},
		{"scheme", 0, ""},
		{"模型目录", 5, "模型…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNormalizePane(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("a long styled line")
	out := normalizePane("short\n"+styled+"\nthird\nfourth", 8, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := lipgloss.Width(ln); w != 8 {
			t.Fatalf("line %d width = %d: %q", i, w, ln)
		}
	}
}

func TestSplitPaths(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := splitPaths(" /a/b " + sep + sep + "/c\n/d\n\n")
	want := []string{"/a/b", "/c", "/d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitPaths = %q, want %q", got, want)
	}
}
