package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog/log"
)

// TopicReader carries every event emitted by a reader.
const TopicReader = "reader"

// HandlerFunc receives decoded events together with their sequence number.
type HandlerFunc func(seq uint64, e Event) error

// EventRouter wires a PublisherManager to handlers over an in-process
// watermill pubsub.
type EventRouter struct {
	logger     watermill.LoggerAdapter
	Publisher  message.Publisher
	Subscriber message.Subscriber
	manager    *PublisherManager
	router     *message.Router
}

type EventRouterOption func(*EventRouter)

func WithLogger(logger watermill.LoggerAdapter) EventRouterOption {
	return func(r *EventRouter) {
		r.logger = logger
	}
}

// WithVerbose logs watermill internals through the global zerolog logger.
func WithVerbose(verbose bool) EventRouterOption {
	return func(r *EventRouter) {
		if verbose {
			r.logger = NewWatermillLogger(log.Logger)
		}
	}
}

func NewEventRouter(options ...EventRouterOption) (*EventRouter, error) {
	ret := &EventRouter{
		logger: watermill.NopLogger{},
	}
	for _, o := range options {
		o(ret)
	}

	// Publish must not wait for acks: handlers forward into the view's event
	// loop, which may itself be the one publishing.
	goPubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: false,
	}, ret.logger)
	ret.Publisher = goPubSub
	ret.Subscriber = goPubSub

	router, err := message.NewRouter(message.RouterConfig{}, ret.logger)
	if err != nil {
		return nil, err
	}
	ret.router = router

	ret.manager = NewPublisherManager()
	ret.manager.RegisterPublisher(TopicReader, goPubSub)

	return ret, nil
}

// Sink returns the sink publishing to TopicReader.
func (e *EventRouter) Sink() Sink {
	return e.manager
}

// AddHandler registers f for every event on TopicReader. Payloads that do
// not decode are logged and dropped.
func (e *EventRouter) AddHandler(name string, f HandlerFunc) {
	e.router.AddNoPublisherHandler(name, TopicReader, e.Subscriber, func(msg *message.Message) error {
		ev, err := NewEventFromJSON(msg.Payload)
		if err != nil {
			log.Error().Err(err).Str("message_id", msg.UUID).Msg("could not decode event")
			return nil
		}
		seq, _ := SequenceNumber(msg)
		return f(seq, ev)
	})
}

func (e *EventRouter) Run(ctx context.Context) error {
	return e.router.Run(ctx)
}

func (e *EventRouter) Running() chan struct{} {
	return e.router.Running()
}

func (e *EventRouter) Close() error {
	log.Debug().Msg("closing event router")
	if err := e.Publisher.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close pubsub")
	}
	if err := e.router.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close router")
	}
	return nil
}
