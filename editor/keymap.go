package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor key bindings.
//
// Bindings must be portable across terminals (ctrl/alt fallbacks).
type KeyMap struct {
	Left, Right, Up, Down    key.Binding
	ShiftLeft, ShiftRight    key.Binding
	Home, End                key.Binding
	Backspace, Delete, Enter key.Binding
	Bold, Italic, Underlined key.Binding
	Code, Heading, Link      key.Binding
	Undo, Redo               key.Binding
	Accept, Ignore           key.Binding
	Copy, Cut, Paste, Save   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),

		Home: key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "line start")),
		End:  key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "line end")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "split block")),

		// ctrl+i and ctrl+m arrive as tab and enter, so italic and code use alt.
		Bold:       key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "bold")),
		Italic:     key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
		Underlined: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "underline")),
		Code:       key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "code")),
		Heading:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "heading")),
		Link:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "link")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),

		Accept: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept suggestion")),
		Ignore: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "ignore suggestion")),

		Copy:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		Cut:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cut")),
		Paste: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Save:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

// ShortHelp returns the bindings shown in compact help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Bold, k.Italic, k.Heading, k.Undo, k.Accept, k.Ignore, k.Save}
}

// FullHelp returns all bindings grouped for expanded help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.ShiftLeft, k.ShiftRight, k.Home, k.End},
		{k.Backspace, k.Delete, k.Enter, k.Undo, k.Redo},
		{k.Bold, k.Italic, k.Underlined, k.Code, k.Heading, k.Link},
		{k.Accept, k.Ignore, k.Copy, k.Cut, k.Paste, k.Save},
	}
}
