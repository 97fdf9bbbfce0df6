package cli

import "github.com/charmbracelet/bubbles/key"

// editorKeyMap holds the canvas keybindings. Mouse gestures (select,
// drag, connect) are handled separately.
type editorKeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Validate key.Binding
	Save     key.Binding
	Quit     key.Binding
}

var editorKeys = editorKeyMap{
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete", "backspace"),
		key.WithHelp("d", "delete"),
	),
	Validate: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "validate"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// shortHelp lists the bindings in footer order.
func (k editorKeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Validate, k.Save, k.Quit}
}
