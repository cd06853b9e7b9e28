package broker

import (
	"context"
	"testing"
)

func TestTopicForChatroom(t *testing.T) {
	if got := TopicForChatroom(42); got != "subscribe.42" {
		t.Fatalf("expected subscribe.42, got %s", got)
	}
}

func TestNewPublisherFallsBackToNoop(t *testing.T) {
	publisher := NewPublisher("", "chat")

	if PublisherMode(publisher) != "noop" {
		t.Fatalf("expected noop mode, got %s", PublisherMode(publisher))
	}
	if PublisherNoopReason(publisher) != "empty amqp url" {
		t.Fatalf("unexpected noop reason %q", PublisherNoopReason(publisher))
	}
	if err := publisher.Publish(context.Background(), TopicForChatroom(1), nil); err != nil {
		t.Fatalf("expected noop publish to succeed, got %v", err)
	}
}
