package chat

import "errors"

var (
	// ErrInvalidMessage rejects a send before any store interaction.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrForbiddenAccess rejects an authenticated member who is not a
	// participant of the target room. No state is mutated.
	ErrForbiddenAccess = errors.New("not a chatroom participant")
	// ErrPersistence reports a durable store failure. The operation is
	// aborted with no partial effects: a failed save never publishes.
	ErrPersistence = errors.New("persistence failure")
	// ErrBrokerUnavailable reports a publish failure after a successful
	// persist. The message stays in the log; redelivery is the broker's
	// concern.
	ErrBrokerUnavailable = errors.New("broker unavailable")
)
