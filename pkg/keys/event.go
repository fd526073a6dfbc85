// Package keys maps key presses to outline navigation, speech and the two
// global commands (generate, edit prompt).
//
// Whether a key is interpreted depends on focus: while an editable field has
// focus only the global shortcuts apply, so typed letters never move the
// reader.
package keys

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Focus describes the control holding input focus when a key is pressed.
type Focus struct {
	Tag      string `json:"tag" yaml:"tag"`
	Editable bool   `json:"editable" yaml:"editable"`
}

// IsEditable reports whether the focused control accepts typed text.
func (f Focus) IsEditable() bool {
	if f.Editable {
		return true
	}
	switch strings.ToLower(f.Tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

// ActivatesNatively reports whether Enter and Space already activate the
// focused control.
func (f Focus) ActivatesNatively() bool {
	switch strings.ToLower(f.Tag) {
	case "button", "a":
		return true
	}
	return false
}

// Event is one key press with its modifiers. Key uses bubbletea key names
// ("up", "enter", "space", "esc", "s", ...).
type Event struct {
	Key   string `json:"key" yaml:"key"`
	Ctrl  bool   `json:"ctrl,omitempty" yaml:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty" yaml:"alt,omitempty"`
	Meta  bool   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty" yaml:"shift,omitempty"`
	Focus Focus  `json:"focus" yaml:"focus"`
}

// Normalized lowercases single letters typed with shift ("S" becomes shift+s)
// and names the space bar "space".
func (e Event) Normalized() Event {
	switch e.Key {
	case " ":
		e.Key = "space"
	case "Enter", "Escape", "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight":
		e.Key = browserNames[e.Key]
	}
	if r, size := utf8.DecodeRuneInString(e.Key); size == len(e.Key) && unicode.IsUpper(r) {
		e.Key = string(unicode.ToLower(r))
		e.Shift = true
	}
	return e
}

var browserNames = map[string]string{
	"Enter":      "enter",
	"Escape":     "esc",
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"ArrowLeft":  "left",
	"ArrowRight": "right",
}

// String returns the chord in the form ctrl+alt+meta+shift+key, which is what
// key bindings are matched against.
func (e Event) String() string {
	e = e.Normalized()
	var sb strings.Builder
	if e.Ctrl {
		sb.WriteString("ctrl+")
	}
	if e.Alt {
		sb.WriteString("alt+")
	}
	if e.Meta {
		sb.WriteString("meta+")
	}
	if e.Shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(e.Key)
	return sb.String()
}

var modifierPrefixes = []string{"ctrl+", "alt+", "meta+", "shift+"}

// FromTea converts a bubbletea key message.
func FromTea(msg tea.KeyMsg, focus Focus) Event {
	e := Event{Focus: focus}
	s := msg.String()
	for {
		stripped := false
		for _, p := range modifierPrefixes {
			if len(s) > len(p) && strings.HasPrefix(s, p) {
				switch p {
				case "ctrl+":
					e.Ctrl = true
				case "alt+":
					e.Alt = true
				case "meta+":
					e.Meta = true
				case "shift+":
					e.Shift = true
				}
				s = s[len(p):]
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	e.Key = s
	return e.Normalized()
}
