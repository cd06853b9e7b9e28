package observability

import "context"

// Publisher is the minimal broker surface event publishing needs.
// broker.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}

var defaultPublisher Publisher

// SetPublisher installs the broker publisher used for lifecycle events.
func SetPublisher(publisher Publisher) {
	defaultPublisher = publisher
}

// PublishEvent emits an envelope on the given routing key. A nil publisher
// makes it a no-op so tests and local runs need no broker.
func PublishEvent(ctx context.Context, routingKey string, envelope EventEnvelope) error {
	if defaultPublisher == nil {
		return nil
	}
	return defaultPublisher.Publish(ctx, routingKey, envelope)
}
