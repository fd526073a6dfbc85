package events

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

const SequenceNumberKey = "sequence_number"

// PublisherManager distributes events to a set of publishers, each
// registered for a topic. Every outgoing message carries a sequence number
// in the order Publish handled it.
type PublisherManager struct {
	publishers     map[string][]message.Publisher
	sequenceNumber uint64
	mutex          sync.Mutex
}

func NewPublisherManager() *PublisherManager {
	return &PublisherManager{
		publishers: make(map[string][]message.Publisher),
	}
}

func (s *PublisherManager) RegisterPublisher(topic string, pub message.Publisher) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.publishers[topic] = append(s.publishers[topic], pub)
}

// Publish serializes e to JSON and hands it to every registered publisher.
func (s *PublisherManager) Publish(e Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	for topic, pubs := range s.publishers {
		for _, pub := range pubs {
			msg := message.NewMessage(watermill.NewUUID(), b)
			msg.Metadata.Set(SequenceNumberKey, strconv.FormatUint(s.sequenceNumber, 10))
			if err := pub.Publish(topic, msg); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("failed to publish")
			}
		}
	}
	s.sequenceNumber++

	return nil
}

// Emit publishes e and logs failures.
func (s *PublisherManager) Emit(e Event) {
	if err := s.Publish(e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type())).Msg("failed to publish")
	}
}

// SequenceNumber reads the sequence number set by Publish, false when absent.
func SequenceNumber(msg *message.Message) (uint64, bool) {
	n, err := strconv.ParseUint(msg.Metadata.Get(SequenceNumberKey), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

var _ Sink = (*PublisherManager)(nil)
