package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/reader"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// forwarder hands router events to the program in sequence order. Events
// overtaken by a newer one are dropped.
type forwarder struct {
	send func(tea.Msg)
	last atomic.Uint64
}

func (f *forwarder) handle(seq uint64, e events.Event) error {
	for {
		last := f.last.Load()
		if seq != 0 && seq <= last {
			log.Debug().Uint64("seq", seq).Uint64("last", last).Msg("dropping stale event")
			return nil
		}
		if f.last.CompareAndSwap(last, seq) {
			break
		}
	}
	f.send(EventMsg{Seq: seq, Event: e})
	return nil
}

// Run shows the reader until the user quits or ctx is canceled. The router
// must be the one whose sink the controller emits to.
func Run(ctx context.Context, ctrl *reader.Controller, router *events.EventRouter, options ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	options = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, options...)
	p := tea.NewProgram(NewModel(ctx, ctrl), options...)

	fwd := &forwarder{send: p.Send}
	router.AddHandler("tui", fwd.handle)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		<-router.Running()
		_, err := p.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	err := eg.Wait()
	ctrl.Cancel()
	ctrl.StopSpeech()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
