package keys

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/go-go-golems/naofs/pkg/navigation"
	"github.com/go-go-golems/naofs/pkg/outline"
)

// Action is a command the dispatcher cannot carry out itself.
type Action int

const (
	ActionNone Action = iota
	ActionGenerate
	ActionEditPrompt
)

func (a Action) String() string {
	switch a {
	case ActionGenerate:
		return "generate"
	case ActionEditPrompt:
		return "edit-prompt"
	default:
		return "none"
	}
}

// Result tells the caller whether the key was consumed. A handled key must
// not fall through to the default behavior of the focused control.
type Result struct {
	Handled bool
	Action  Action
}

type Preferences struct {
	AutoSpeakTitles bool `json:"auto_speak_titles" yaml:"auto_speak_titles"`
	AutoSpeakBodies bool `json:"auto_speak_bodies" yaml:"auto_speak_bodies"`
}

// Host gives the dispatcher access to the reader it drives.
type Host interface {
	Navigator() *navigation.Navigator
	Preferences() Preferences
	// FocusEntry moves view focus to the entry with id.
	FocusEntry(id string)
}

type Speaker interface {
	CancelAndSpeak(text string, delay time.Duration)
	Stop()
}

type Delays struct {
	Title time.Duration
	Body  time.Duration
}

var DefaultDelays = Delays{
	Title: 120 * time.Millisecond,
	Body:  80 * time.Millisecond,
}

type Option func(*Dispatcher)

func WithKeyMap(km KeyMap) Option {
	return func(d *Dispatcher) {
		d.keyMap = km
	}
}

func WithDelays(delays Delays) Option {
	return func(d *Dispatcher) {
		d.delays = delays
	}
}

type Dispatcher struct {
	speaker Speaker
	keyMap  KeyMap
	delays  Delays
}

func NewDispatcher(speaker Speaker, options ...Option) *Dispatcher {
	d := &Dispatcher{
		speaker: speaker,
		keyMap:  DefaultKeyMap,
		delays:  DefaultDelays,
	}
	for _, o := range options {
		o(d)
	}
	return d
}

func (d *Dispatcher) KeyMap() KeyMap {
	return d.keyMap
}

// Dispatch interprets e against host. Global shortcuts are checked first and
// apply in every focus; everything else is ignored while an editable control
// has focus.
func (d *Dispatcher) Dispatch(host Host, e Event) Result {
	e = e.Normalized()
	km := d.keyMap

	switch {
	case key.Matches(e, km.Generate):
		return Result{Handled: true, Action: ActionGenerate}
	case key.Matches(e, km.EditPrompt):
		return Result{Handled: true, Action: ActionEditPrompt}
	}

	if e.Focus.IsEditable() {
		return Result{}
	}

	nav := host.Navigator()
	prefs := host.Preferences()

	switch {
	case key.Matches(e, km.StopSpeech):
		d.speaker.Stop()

	case key.Matches(e, km.SpeakTitle):
		if cur, ok := nav.Current(); ok {
			d.speaker.CancelAndSpeak(cur.Title, d.delays.Title)
		}

	case key.Matches(e, km.SpeakBody):
		if cur, ok := nav.Current(); ok && nav.IsExpanded(cur.ID) {
			d.speaker.CancelAndSpeak(cur.Body, d.delays.Title)
		}

	case key.Matches(e, km.Next):
		d.move(host, nav.MoveNext(), prefs)

	case key.Matches(e, km.Previous):
		d.move(host, nav.MovePrevious(), prefs)

	case key.Matches(e, km.Expand):
		if cur, ok := nav.Current(); ok && !nav.IsExpanded(cur.ID) {
			nav.Expand(cur.ID)
			d.speakBody(cur, prefs)
		}

	case key.Matches(e, km.Collapse):
		if cur, ok := nav.Current(); ok && nav.IsExpanded(cur.ID) {
			nav.Collapse(cur.ID)
		}

	case key.Matches(e, km.Toggle):
		if e.Focus.ActivatesNatively() {
			return Result{}
		}
		if cur, ok := nav.Current(); ok {
			if nav.Toggle(cur.ID, nil) {
				d.speakBody(cur, prefs)
			}
		}

	default:
		return Result{}
	}

	return Result{Handled: true}
}

// move announces the entry reached after a step. At a boundary the index
// does not change but the title is still repeated, so the user hears where
// they are.
func (d *Dispatcher) move(host Host, changed bool, prefs Preferences) {
	cur, ok := host.Navigator().Current()
	if !ok {
		return
	}
	if changed {
		host.FocusEntry(cur.ID)
	}
	if prefs.AutoSpeakTitles {
		d.speaker.CancelAndSpeak(cur.Title, d.delays.Title)
	}
}

func (d *Dispatcher) speakBody(cur outline.FlatEntry, prefs Preferences) {
	if prefs.AutoSpeakBodies {
		d.speaker.CancelAndSpeak(cur.Body, d.delays.Body)
	}
}
