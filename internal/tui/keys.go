package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send   key.Binding
	Scroll key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown", "up", "down"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) helpLine() string {
	line := ""
	for i, b := range []key.Binding{k.Send, k.Scroll, k.Quit} {
		if i > 0 {
			line += " • "
		}
		line += b.Help().Key + " " + b.Help().Desc
	}
	return line
}
