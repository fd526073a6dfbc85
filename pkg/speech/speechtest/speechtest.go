// Package speechtest provides deterministic fakes for the speech package.
package speechtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-go-golems/naofs/pkg/speech"
)

// RecordingEngine records every utterance it is asked to speak. By default
// Speak returns immediately; with Hold set it blocks until the context is
// cancelled or Release is called.
type RecordingEngine struct {
	Hold      bool
	Err       error
	VoiceList []speech.Voice

	mu      sync.Mutex
	spoken  []speech.Utterance
	cancels int
	release chan struct{}
}

func NewRecordingEngine() *RecordingEngine {
	return &RecordingEngine{release: make(chan struct{})}
}

func (e *RecordingEngine) Speak(ctx context.Context, u speech.Utterance) error {
	e.mu.Lock()
	e.spoken = append(e.spoken, u)
	hold := e.Hold
	release := e.release
	err := e.Err
	e.mu.Unlock()

	if !hold {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-release:
		return err
	}
}

func (e *RecordingEngine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels++
}

func (e *RecordingEngine) Voices(context.Context) ([]speech.Voice, error) {
	return e.VoiceList, nil
}

// Release lets every held Speak call return.
func (e *RecordingEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.release != nil {
		close(e.release)
	}
	e.release = make(chan struct{})
}

func (e *RecordingEngine) Utterances() []speech.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]speech.Utterance{}, e.spoken...)
}

// Texts returns the text of every recorded utterance in order.
func (e *RecordingEngine) Texts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ret := make([]string, 0, len(e.spoken))
	for _, u := range e.spoken {
		ret = append(ret, u.Text)
	}
	return ret
}

func (e *RecordingEngine) Cancels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// ManualScheduler runs scheduled tasks only when the test advances its clock.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	next  int
	tasks []*task
}

type task struct {
	id        int
	due       time.Duration
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) speech.Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	t := &task{id: s.next, due: s.now + delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Advance moves the clock forward by d and runs every task that became due,
// in due order, on the calling goroutine.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []*task
	for _, t := range s.tasks {
		switch {
		case t.cancelled:
		case t.due <= s.now:
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending counts scheduled tasks that are neither cancelled nor run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

var (
	_ speech.Engine    = (*RecordingEngine)(nil)
	_ speech.Scheduler = (*ManualScheduler)(nil)
)
