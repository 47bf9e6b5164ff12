// Package keys defines the key bindings shared by the TUI views
package keys

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit  key.Binding
	Back  key.Binding
	Enter key.Binding
	Tab   key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Filter key.Binding
	Tags   key.Binding

	ShowCompleted key.Binding
	Toggle        key.Binding
	CycleStatus   key.Binding
	Archive       key.Binding
	Comment       key.Binding
	Resolve       key.Binding
	Report        key.Binding
	Board         key.Binding
	MoveNext      key.Binding
	MovePrev      key.Binding

	SortBy    key.Binding
	Direction key.Binding
	ExportPDF key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Tags:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),

		ShowCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Toggle:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
		CycleStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Archive:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Comment:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Resolve:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "resolve")),
		Report:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Board:         key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "board")),
		MoveNext:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next status")),
		MovePrev:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous status")),

		SortBy:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Direction: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		ExportPDF: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
	}
}
