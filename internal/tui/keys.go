package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	New     key.Binding
	Edit    key.Binding
	Help    key.Binding
	Save    key.Binding
	Diff    key.Binding
	Copy    key.Binding
	Suspend key.Binding
	Close   key.Binding // q, viewing only
	Quit    key.Binding
	Dismiss key.Binding
	Cancel  key.Binding // leaves the file picker
}

func newKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		New:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Edit:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit/view")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "markdown help")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Diff:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "changes")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy all")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Close:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
		Cancel:  key.NewBinding(key.WithKeys("q", "ctrl+o"), key.WithHelp("q", "cancel")),
	}
}

// ShortHelp implements help.KeyMap. Disabled bindings are hidden by help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Edit, k.Help, k.Save, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.New, k.Edit},
		{k.Help, k.Save, k.Diff},
		{k.Copy, k.Suspend, k.Quit},
	}
}
