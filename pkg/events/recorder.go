package events

import "sync"

// Recorder keeps every emitted event in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

// FocusIntents returns the recorded focus intents in order.
func (r *Recorder) FocusIntents() []*FocusIntent {
	ret := []*FocusIntent{}
	for _, e := range r.Events() {
		if f, ok := e.(*FocusIntent); ok {
			ret = append(ret, f)
		}
	}
	return ret
}

// Statuses returns the status texts in the order they were set.
func (r *Recorder) Statuses() []string {
	ret := []string{}
	for _, e := range r.Events() {
		if s, ok := e.(*StatusChanged); ok {
			ret = append(ret, s.Status)
		}
	}
	return ret
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var _ Sink = (*Recorder)(nil)
