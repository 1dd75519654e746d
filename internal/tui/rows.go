package tui

import (
	"strings"

	"github.com/asd977/FlexSimulate/internal/nav"
)

type row struct {
	item  *nav.Item
	depth int
}

func (r row) key() string { return r.item.Node.Key() }

// flattenTree lists the visible rows of t in display order. Children of collapsed items are
// hidden.
func flattenTree(t *nav.Tree, collapsed map[string]bool) []row {
	var rows []row
	t.Walk(func(it *nav.Item, depth int) bool {
		rows = append(rows, row{item: it, depth: depth})
		return !collapsed[it.Node.Key()]
	})
	return rows
}

func rowIndex(rows []row, key string) int {
	for i, r := range rows {
		if r.key() == key {
			return i
		}
	}
	return -1
}

// renderRow renders one tree line without styling or truncation.
func renderRow(r row, collapsed bool, stale bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.depth))
	switch {
	case len(r.item.Children) == 0:
		b.WriteString("  ")
	case collapsed:
		b.WriteString("▸ ")
	default:
		b.WriteString("▾ ")
	}
	b.WriteString(r.item.Text)
	if stale {
		b.WriteString(" *")
	}
	return b.String()
}

// siblingIndex is it's position among its parent's children (or the roots).
func siblingIndex(t *nav.Tree, it *nav.Item) (int, []*nav.Item) {
	list := t.Roots
	if p := it.Parent(); p != nil {
		list = p.Children
	}
	for i, c := range list {
		if c == it {
			return i, list
		}
	}
	return -1, list
}
