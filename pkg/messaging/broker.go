package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Event is the envelope every published message travels in.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Observer is notified after each publish attempt.
type Observer interface {
	ObservePublish(eventType string, err error)
}

// EventPublisher wraps payloads in an Event and sends them to one channel.
type EventPublisher struct {
	broker   Broker
	channel  string
	observer Observer
	now      func() time.Time
}

func NewEventPublisher(broker Broker, channel string, observer Observer) *EventPublisher {
	return &EventPublisher{
		broker:   broker,
		channel:  channel,
		observer: observer,
		now:      time.Now,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	evt := Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Payload:    body,
	}
	err = p.broker.Publish(ctx, p.channel, evt)
	if p.observer != nil {
		p.observer.ObservePublish(eventType, err)
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	log.Debug().Str("event_id", evt.ID.String()).Str("type", eventType).Msg("event published")
	return nil
}

// DecodeEvent parses a message received from a Broker subscription.
func DecodeEvent(raw []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &evt, nil
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
