package keys

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Next       key.Binding
	Previous   key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Toggle     key.Binding
	SpeakTitle key.Binding
	SpeakBody  key.Binding
	StopSpeech key.Binding

	// global, also active while editing the prompt
	Generate   key.Binding
	EditPrompt key.Binding
}

var DefaultKeyMap = KeyMap{
	Next:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
	Previous:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Expand:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "expand")),
	Collapse:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "collapse")),
	Toggle:     key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter/space", "toggle")),
	SpeakTitle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "speak title")),
	SpeakBody:  key.NewBinding(key.WithKeys("shift+s"), key.WithHelp("S", "speak body")),
	StopSpeech: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop speech")),
	Generate: key.NewBinding(
		key.WithKeys(
			"ctrl+enter", "meta+enter", "ctrl+meta+enter", "ctrl+shift+enter", "meta+shift+enter",
			"ctrl+g", "alt+g", "ctrl+alt+g", "ctrl+shift+g", "alt+shift+g",
		),
		key.WithHelp("ctrl+g", "generate"),
	),
	EditPrompt: key.NewBinding(
		key.WithKeys("ctrl+e", "alt+e", "ctrl+alt+e", "ctrl+shift+e", "alt+shift+e"),
		key.WithHelp("alt+e", "edit prompt"),
	),
}

func (k KeyMap) Global() []key.Binding {
	return []key.Binding{k.Generate, k.EditPrompt}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Toggle, k.SpeakTitle, k.Generate, k.EditPrompt}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Expand, k.Collapse, k.Toggle},
		{k.SpeakTitle, k.SpeakBody, k.StopSpeech},
		k.Global(),
	}
}
