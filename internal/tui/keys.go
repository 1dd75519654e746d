package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Collapse  key.Binding
	Expand    key.Binding
	Toggle    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Rename    key.Binding
	Import    key.Binding
	Open      key.Binding
	Delete    key.Binding
	Rescan    key.Binding
	Run       key.Binding
	CopyPath  key.Binding
	ToggleLog key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "fold")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Rename:    key.NewBinding(key.WithKeys("r", "f2"), key.WithHelp("r", "rename")),
		Import:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open project")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Rescan:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rescan")),
		Run:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run model")),
		CopyPath:  key.NewBinding(key.WithKeys("c", "y"), key.WithHelp("c", "copy path")),
		ToggleLog: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Rename, k.Import, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand, k.Toggle},
		{k.MoveUp, k.MoveDown, k.Rename, k.Delete},
		{k.Import, k.Open, k.Rescan, k.Run},
		{k.CopyPath, k.ToggleLog, k.Help, k.Quit},
	}
}

type promptKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var promptKeys = promptKeyMap{
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+g")),
}

type confirmKeyMap struct {
	Yes       key.Binding
	WithFiles key.Binding
	No        key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes:       key.NewBinding(key.WithKeys("y", "enter")),
	WithFiles: key.NewBinding(key.WithKeys("f")),
	No:        key.NewBinding(key.WithKeys("n", "esc", "ctrl+g")),
}
