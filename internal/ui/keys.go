package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the book key bindings
type KeyMap struct {
	Prev       key.Binding
	Next       key.Binding
	First      key.Binding
	Last       key.Binding
	Tab        key.Binding
	Jump       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Reload     key.Binding
	Pager      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// JumpKeyMap defines the bindings active while the category jump is open
type JumpKeyMap struct {
	Accept key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		Tab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "category"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find category"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll page down"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload menu"),
		),
		Pager: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "open page in pager"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultJumpKeyMap returns the jump mode bindings
func DefaultJumpKeyMap() JumpKeyMap {
	return JumpKeyMap{
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to category"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Reload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last, k.Tab, k.Jump},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Reload, k.Pager, k.Help, k.Quit},
	}
}
