package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is the debounce used for navigation announcements.
const DefaultDelay = 120 * time.Millisecond

// Status is what views display about speech.
type Status struct {
	Available bool `json:"available" yaml:"available"`
	Speaking  bool `json:"speaking" yaml:"speaking"`
	Pending   bool `json:"pending" yaml:"pending"`
}

type Option func(*Coordinator)

func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) {
		c.scheduler = s
	}
}

func WithSettings(s Settings) Option {
	return func(c *Coordinator) {
		c.settings = s.Clamped()
	}
}

func WithOnChange(fn func(Status)) Option {
	return func(c *Coordinator) {
		c.onChange = append(c.onChange, fn)
	}
}

// Coordinator serializes speech requests so that at most one utterance is
// active. It is safe for concurrent use; timer callbacks and engine
// completions arrive on other goroutines.
type Coordinator struct {
	engine    Engine
	scheduler Scheduler

	mu       sync.Mutex
	settings Settings
	// seq identifies the latest request. Timers and engine completions carrying
	// an older seq are stale and dropped.
	seq       uint64
	activeSeq uint64
	pending   Cancel
	cancel    context.CancelFunc
	speaking  bool
	onChange  []func(Status)
	// version orders status changes; notify drops any older than the last
	// one delivered.
	version  uint64
	notifyMu sync.Mutex
	notified uint64
}

// NewCoordinator wraps engine. A nil engine yields a coordinator on which
// every call is a no-op.
func NewCoordinator(engine Engine, options ...Option) *Coordinator {
	c := &Coordinator{
		engine:    engine,
		scheduler: TimerScheduler{},
		settings:  DefaultSettings(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

func (c *Coordinator) Available() bool {
	return c.engine != nil
}

func (c *Coordinator) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speaking
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// OnChange registers fn to be called after every status change. fn is called
// without the coordinator lock held and may run on any goroutine, but calls
// are serialized and never deliver an older status after a newer one.
func (c *Coordinator) OnChange(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// Settings returns the settings applied to the next utterance.
func (c *Coordinator) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Configure replaces the settings. An utterance already playing keeps the
// settings it started with.
func (c *Coordinator) Configure(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s.Clamped()
}

func (c *Coordinator) Voices(ctx context.Context) ([]Voice, error) {
	if c.engine == nil {
		return []Voice{}, nil
	}
	voices, err := c.engine.Voices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list voices")
	}
	return voices, nil
}

// Speak cancels whatever is playing or pending and starts text immediately.
// Blank text only cancels.
func (c *Coordinator) Speak(text string) {
	if c.engine == nil {
		return
	}
	c.mu.Lock()
	c.stopLocked()
	if strings.TrimSpace(text) != "" {
		c.seq++
		c.startLocked(c.seq, text)
	}
	status, version := c.changeLocked()
	c.mu.Unlock()
	c.notify(status, version)
}

// CancelAndSpeak cancels whatever is playing or pending and schedules text to
// start after delay. Of several calls within the delay only the last one is
// heard.
func (c *Coordinator) CancelAndSpeak(text string, delay time.Duration) {
	if c.engine == nil {
		return
	}
	c.mu.Lock()
	c.stopLocked()
	if strings.TrimSpace(text) != "" {
		c.seq++
		seq := c.seq
		c.pending = c.scheduler.Schedule(delay, func() {
			c.fire(seq, text)
		})
	}
	status, version := c.changeLocked()
	c.mu.Unlock()
	c.notify(status, version)
}

// Stop cancels the active and the pending utterance. It is safe when idle.
func (c *Coordinator) Stop() {
	if c.engine == nil {
		return
	}
	c.mu.Lock()
	c.stopLocked()
	status, version := c.changeLocked()
	c.mu.Unlock()
	c.notify(status, version)
}

func (c *Coordinator) fire(seq uint64, text string) {
	c.mu.Lock()
	if seq != c.seq || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.startLocked(seq, text)
	status, version := c.changeLocked()
	c.mu.Unlock()
	c.notify(status, version)
}

func (c *Coordinator) startLocked(seq uint64, text string) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.activeSeq = seq
	c.speaking = true
	u := NewUtterance(text, c.settings)

	go func() {
		err := c.engine.Speak(ctx, u)
		cancel()
		c.finish(seq, err)
	}()
}

func (c *Coordinator) finish(seq uint64, err error) {
	c.mu.Lock()
	if seq != c.activeSeq || !c.speaking {
		c.mu.Unlock()
		return
	}
	c.speaking = false
	c.cancel = nil
	status, version := c.changeLocked()
	c.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Msg("utterance failed")
	}
	c.notify(status, version)
}

func (c *Coordinator) stopLocked() {
	if c.pending != nil {
		c.pending()
		c.pending = nil
	}
	// a timer that already fired and is waiting for the lock sees a newer seq
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.speaking = false
	c.engine.CancelAll()
}

func (c *Coordinator) statusLocked() Status {
	return Status{
		Available: c.engine != nil,
		Speaking:  c.speaking,
		Pending:   c.pending != nil,
	}
}

// changeLocked returns the current status stamped with a new version.
func (c *Coordinator) changeLocked() (Status, uint64) {
	c.version++
	return c.statusLocked(), c.version
}

// notify delivers s unless a newer status was already delivered. Listeners
// run one at a time and must not call back into the coordinator.
func (c *Coordinator) notify(s Status, version uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.notified {
		return
	}
	c.notified = version

	c.mu.Lock()
	fns := append([]func(Status){}, c.onChange...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
