package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/go-go-golems/naofs/pkg/keys"
)

// KeyMap holds the view's own keys. Outline navigation and speech keys live
// in keys.KeyMap and go through the reader.
type KeyMap struct {
	FocusPrompt      key.Binding
	BlurPrompt       key.Binding
	Refresh          key.Binding
	ToggleTitles     key.Binding
	ToggleBodies     key.Binding
	CycleVerbosity   key.Binding
	CycleLanguage    key.Binding
	CancelGeneration key.Binding
	RateUp           key.Binding
	RateDown         key.Binding
	Jump             key.Binding
	Help             key.Binding
	Quit             key.Binding
	ForceQuit        key.Binding
}

var DefaultKeyMap = KeyMap{
	FocusPrompt:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "prompt")),
	BlurPrompt:       key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "leave prompt")),
	Refresh:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	ToggleTitles:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "auto-speak titles")),
	ToggleBodies:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "auto-speak bodies")),
	CycleVerbosity:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verbosity")),
	CycleLanguage:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
	CancelGeneration: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
	RateUp:           key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	RateDown:         key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
	Jump:             key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
	Help:             key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:             key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:        key.NewBinding(key.WithKeys("ctrl+c")),
}

// updateKeyBindings enables the keys that apply to the focused area.
func (k *KeyMap) updateKeyBindings(promptFocused bool) {
	outlineKeys := []*key.Binding{
		&k.FocusPrompt, &k.Refresh, &k.ToggleTitles, &k.ToggleBodies,
		&k.CycleVerbosity, &k.CycleLanguage, &k.CancelGeneration,
		&k.RateUp, &k.RateDown, &k.Jump, &k.Help, &k.Quit,
	}
	for _, b := range outlineKeys {
		b.SetEnabled(!promptFocused)
	}
	k.BlurPrompt.SetEnabled(promptFocused)
}

// helpKeys merges the reader's keys with the view's for the help footer.
type helpKeys struct {
	reader keys.KeyMap
	view   KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append(h.reader.ShortHelp(), h.view.FocusPrompt, h.view.BlurPrompt, h.view.Help, h.view.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append(h.reader.FullHelp(),
		[]key.Binding{h.view.FocusPrompt, h.view.BlurPrompt, h.view.Jump, h.view.Refresh, h.view.CancelGeneration},
		[]key.Binding{h.view.ToggleTitles, h.view.ToggleBodies, h.view.CycleVerbosity, h.view.CycleLanguage, h.view.RateUp, h.view.RateDown},
		[]key.Binding{h.view.Help, h.view.Quit},
	)
}
