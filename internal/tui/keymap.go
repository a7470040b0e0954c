package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings. It implements help.KeyMap.
type KeyMap struct {
	Run   key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default bindings. Letters are safe as bindings
// because the index input only accepts digits.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run all calculators"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Reset, k.Help, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Run, k.Reset}, {k.Help, k.Quit}}
}
