package generation

import (
	"context"
	"sync"

	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Completion is the outcome of one request. Exactly one of Outline and Err
// is set.
type Completion struct {
	Token   uuid.UUID
	Request Request
	Outline *outline.Outline
	Err     error
}

// Ticket is a started request.
type Ticket struct {
	Token   uuid.UUID
	Request Request

	cancel     context.CancelFunc
	done       chan struct{}
	completion Completion
}

// Wait blocks until the request finished and returns its completion.
func (t *Ticket) Wait() Completion {
	<-t.done
	return t.completion
}

func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Manager keeps at most one request current. Starting a request cancels the
// previous one, and Resolve only accepts the completion of the current one,
// so a late answer to a superseded request is never applied.
type Manager struct {
	client Client

	mu      sync.Mutex
	current *Ticket
}

func NewManager(client Client) *Manager {
	return &Manager{client: client}
}

// Start validates the request and runs it in the background. An empty prompt
// returns a *ValidationError without calling the client.
func (m *Manager) Start(ctx context.Context, prompt, verbosity, language string) (*Ticket, error) {
	req, err := NewRequest(prompt, verbosity, language)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Ticket{
		Token:   uuid.New(),
		Request: req,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	m.mu.Lock()
	if m.current != nil {
		log.Debug().Str("token", m.current.Token.String()).Msg("superseding generation request")
		m.current.cancel()
	}
	m.current = t
	m.mu.Unlock()

	go func() {
		defer close(t.done)
		defer cancel()

		o, err := m.client.Generate(ctx, req)
		if errors.Is(ctx.Err(), context.Canceled) {
			// a cancelled request never yields an outline, even if the client
			// answered anyway
			var abort *AbortError
			if !errors.As(err, &abort) {
				err = &AbortError{Cause: ctx.Err()}
			}
			o = nil
		}
		if err == nil && o == nil {
			err = &ResponseShapeError{Reason: "empty response"}
		}
		if err != nil {
			o = nil
		}
		t.completion = Completion{Token: t.Token, Request: req, Outline: o, Err: err}
	}()

	return t, nil
}

// Resolve reports whether c belongs to the current request and, if so,
// retires it. Completions of superseded requests return false and must be
// discarded.
func (m *Manager) Resolve(c Completion) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.Token != c.Token {
		log.Debug().Str("token", c.Token.String()).Msg("discarding stale generation result")
		return false
	}
	m.current = nil
	return true
}

// Cancel aborts the current request. Its completion still resolves, as an
// *AbortError.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return false
	}
	m.current.cancel()
	return true
}

func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns the token of the current request.
func (m *Manager) Current() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return uuid.Nil, false
	}
	return m.current.Token, true
}
