package nav

// Item is one displayed row of the tree.
type Item struct {
	Node     Node
	Text     string
	Children []*Item

	parent *Item
}

func (it *Item) Parent() *Item { return it.parent }

// Add appends a child and returns it.
func (it *Item) Add(n Node, text string) *Item {
	c := &Item{Node: n, Text: text, parent: it}
	it.Children = append(it.Children, c)
	return c
}

// Tree is the ordered, user-editable view. Text edits notify the change handler unless
// notifications are blocked.
type Tree struct {
	Roots []*Item

	onChange func(*Item)
	blocked  bool
	editing  *Item
}

func NewTree() *Tree { return &Tree{} }

// OnChange registers the handler for text edits.
func (t *Tree) OnChange(fn func(*Item)) { t.onChange = fn }

func (t *Tree) AddRoot(n Node, text string) *Item {
	it := &Item{Node: n, Text: text}
	t.Roots = append(t.Roots, it)
	return it
}

func (t *Tree) Clear() {
	t.Roots = nil
	t.editing = nil
}

// SetText changes an item's text as a user edit would.
func (t *Tree) SetText(it *Item, text string) {
	if it == nil || it.Text == text {
		return
	}
	it.Text = text
	if !t.blocked && t.onChange != nil {
		t.onChange(it)
	}
}

// WithoutNotifications runs fn with change notifications suppressed, restoring the previous state.
func (t *Tree) WithoutNotifications(fn func()) {
	prev := t.blocked
	t.blocked = true
	defer func() { t.blocked = prev }()
	fn()
}

func (t *Tree) Blocked() bool { return t.blocked }

// BeginEdit marks an item as being edited in place.
func (t *Tree) BeginEdit(it *Item) { t.editing = it }

// Editing returns the item being edited, if any.
func (t *Tree) Editing() *Item { return t.editing }

// CancelEdit drops an in-progress edit without committing it.
func (t *Tree) CancelEdit() { t.editing = nil }

// Walk visits items depth-first in display order. Returning false skips an item's children.
func (t *Tree) Walk(fn func(it *Item, depth int) bool) {
	var walk func(items []*Item, depth int)
	walk = func(items []*Item, depth int) {
		for _, it := range items {
			if fn(it, depth) {
				walk(it.Children, depth+1)
			}
		}
	}
	walk(t.Roots, 0)
}

// Find returns the item for a node key.
func (t *Tree) Find(key string) *Item {
	var found *Item
	t.Walk(func(it *Item, _ int) bool {
		if found != nil {
			return false
		}
		if it.Node.Key() == key {
			found = it
			return false
		}
		return true
	})
	return found
}

// SchemeItems returns the scheme rows in display order: the children of the project root.
func (t *Tree) SchemeItems() []*Item {
	var out []*Item
	for _, root := range t.Roots {
		switch root.Node.(type) {
		case ProjectNode:
			for _, c := range root.Children {
				if _, ok := c.Node.(SchemeNode); ok {
					out = append(out, c)
				}
			}
		case SchemeNode:
			out = append(out, root)
		}
	}
	return out
}

// Move detaches it and inserts it under parent at index (clamped), as a drag would.
// It does not notify: callers reconcile once the drag completes.
func (t *Tree) Move(it, parent *Item, index int) {
	if it.parent != nil {
		it.parent.Children = removeItem(it.parent.Children, it)
	} else {
		t.Roots = removeItem(t.Roots, it)
	}
	var list *[]*Item
	if parent == nil {
		list = &t.Roots
	} else {
		list = &parent.Children
	}
	if index < 0 {
		index = 0
	}
	if index > len(*list) {
		index = len(*list)
	}
	*list = append(*list, nil)
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = it
	it.parent = parent
}

func removeItem(items []*Item, it *Item) []*Item {
	for i, c := range items {
		if c == it {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
