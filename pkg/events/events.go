// Package events carries reader notifications (focus intents, status and
// speech changes) from the controller to whatever view is attached, as JSON
// messages on a watermill topic.
package events

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type EventType string

const (
	EventTypeFocusIntent     EventType = "focus-intent"
	EventTypeStatusChanged   EventType = "status-changed"
	EventTypeSpeechChanged   EventType = "speech-changed"
	EventTypeOutlineReplaced EventType = "outline-replaced"
)

const (
	FocusTargetPrompt = "prompt"
	FocusTargetEntry  = "entry"
)

type Event interface {
	Type() EventType
}

// Sink receives events emitted by the reader.
type Sink interface {
	Emit(e Event)
}

type SinkFunc func(e Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// FocusIntent asks the view to move input focus. The reader never touches
// the view directly.
type FocusIntent struct {
	Type_   EventType `json:"type"`
	Target  string    `json:"target"`
	EntryID string    `json:"entry_id,omitempty"`
}

func (e *FocusIntent) Type() EventType { return EventTypeFocusIntent }

func NewFocusPrompt() *FocusIntent {
	return &FocusIntent{Type_: EventTypeFocusIntent, Target: FocusTargetPrompt}
}

func NewFocusEntry(id string) *FocusIntent {
	return &FocusIntent{Type_: EventTypeFocusIntent, Target: FocusTargetEntry, EntryID: id}
}

type StatusChanged struct {
	Type_  EventType `json:"type"`
	Status string    `json:"status"`
	Busy   bool      `json:"busy"`
}

func (e *StatusChanged) Type() EventType { return EventTypeStatusChanged }

func NewStatusChanged(status string, busy bool) *StatusChanged {
	return &StatusChanged{Type_: EventTypeStatusChanged, Status: status, Busy: busy}
}

type SpeechChanged struct {
	Type_     EventType `json:"type"`
	Available bool      `json:"available"`
	Speaking  bool      `json:"speaking"`
	Pending   bool      `json:"pending"`
}

func (e *SpeechChanged) Type() EventType { return EventTypeSpeechChanged }

func NewSpeechChanged(available, speaking, pending bool) *SpeechChanged {
	return &SpeechChanged{Type_: EventTypeSpeechChanged, Available: available, Speaking: speaking, Pending: pending}
}

type OutlineReplaced struct {
	Type_     EventType `json:"type"`
	Entries   int       `json:"entries"`
	Language  string    `json:"language,omitempty"`
	Verbosity string    `json:"verbosity,omitempty"`
}

func (e *OutlineReplaced) Type() EventType { return EventTypeOutlineReplaced }

func NewOutlineReplaced(entries int, language, verbosity string) *OutlineReplaced {
	return &OutlineReplaced{Type_: EventTypeOutlineReplaced, Entries: entries, Language: language, Verbosity: verbosity}
}

// NewEventFromJSON decodes a payload produced by Publish.
func NewEventFromJSON(b []byte) (Event, error) {
	var hdr struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(b, &hdr); err != nil {
		return nil, errors.Wrap(err, "could not decode event header")
	}

	var e Event
	switch hdr.Type {
	case EventTypeFocusIntent:
		e = &FocusIntent{}
	case EventTypeStatusChanged:
		e = &StatusChanged{}
	case EventTypeSpeechChanged:
		e = &SpeechChanged{}
	case EventTypeOutlineReplaced:
		e = &OutlineReplaced{}
	default:
		return nil, errors.Errorf("unknown event type %q", hdr.Type)
	}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, errors.Wrapf(err, "could not decode %s event", hdr.Type)
	}
	return e, nil
}
