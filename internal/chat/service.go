package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"market-chat-service/internal/broker"
	"market-chat-service/internal/models"
	"market-chat-service/internal/observability"
	"market-chat-service/internal/repositories"
)

// Service coordinates send, read, enter and disconnect across the chat log,
// the presence store and the broker. It holds no state of its own between
// calls, so instances scale horizontally behind the broker.
type Service struct {
	chatrooms repositories.ChatroomRepository
	chattings repositories.ChattingRepository
	presence  repositories.PresenceRepository
	publisher broker.Publisher
}

// NewService constructs a Service.
func NewService(
	chatrooms repositories.ChatroomRepository,
	chattings repositories.ChattingRepository,
	presence repositories.PresenceRepository,
	publisher broker.Publisher,
) *Service {
	return &Service{
		chatrooms: chatrooms,
		chattings: chattings,
		presence:  presence,
		publisher: publisher,
	}
}

// SendMessage validates, persists and publishes a chat event. Durability
// precedes visibility: the broker sees the message only after the store
// write commits. Sending also counts as the sender reading everything
// already in the room.
func (s *Service) SendMessage(ctx context.Context, msg models.Message) (models.Chatting, error) {
	if msg.SenderID <= 0 || msg.ChatroomID <= 0 || strings.TrimSpace(msg.Content) == "" {
		return models.Chatting{}, ErrInvalidMessage
	}

	saved, err := s.chattings.Save(ctx, models.Chatting{
		ChatroomID: msg.ChatroomID,
		SenderID:   msg.SenderID,
		Content:    msg.Content,
	})
	if err != nil {
		return models.Chatting{}, fmt.Errorf("%w: save chatting: %v", ErrPersistence, err)
	}

	if _, err := s.chattings.MarkReadExcludingSender(ctx, msg.ChatroomID, msg.SenderID); err != nil {
		return models.Chatting{}, fmt.Errorf("%w: mark read: %v", ErrPersistence, err)
	}

	if err := s.publisher.Publish(ctx, broker.TopicForChatroom(msg.ChatroomID), msg); err != nil {
		return saved, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}
	return saved, nil
}

// ReadChattingInChatroom bumps the read count of every eligible message for
// each member currently present in the room. With nobody present it is a
// no-op; repeated calls with no new messages change nothing.
func (s *Service) ReadChattingInChatroom(ctx context.Context, chatroomID int64) error {
	counters, err := s.presence.FindByChatroomID(ctx, chatroomID)
	if err != nil {
		return fmt.Errorf("%w: presence lookup: %v", ErrPersistence, err)
	}

	for _, counter := range counters {
		if _, err := s.chattings.MarkReadExcludingSender(ctx, chatroomID, counter.MemberID); err != nil {
			return fmt.Errorf("%w: mark read: %v", ErrPersistence, err)
		}
	}
	return nil
}

// EnterRoom checks participation, registers one more open connection for the
// member and marks the room read for them. Returns the new connection count.
func (s *Service) EnterRoom(ctx context.Context, chatroomID int64, memberID int64) (int64, error) {
	member, err := s.chatrooms.IsParticipant(ctx, chatroomID, memberID)
	if err != nil {
		return 0, fmt.Errorf("%w: participant check: %v", ErrPersistence, err)
	}
	if !member {
		return 0, ErrForbiddenAccess
	}

	count, err := s.presence.Increment(ctx, chatroomID, memberID)
	if err != nil {
		return 0, fmt.Errorf("%w: presence increment: %v", ErrPersistence, err)
	}
	observability.IncPresenceOp("increment")

	if err := s.ReadChattingInChatroom(ctx, chatroomID); err != nil {
		// The read loop never starts for a failed enter, so nothing else
		// will release this connection's slot. Roll the increment back here
		// or the member stays counted present forever.
		if _, _, derr := s.presence.Decrement(ctx, chatroomID, memberID); derr != nil {
			log.Printf("presence rollback failed chatroom=%d member=%d: %v", chatroomID, memberID, derr)
		} else {
			observability.IncPresenceOp("decrement")
		}
		return 0, err
	}
	return count, nil
}

// DisconnectChatRoom releases one connection for the member. Safe to call
// more than once per disconnect: the counter floors at zero and an absent
// counter is a no-op. When the member's last connection goes away the
// remaining occupants absorb any pending read marks.
func (s *Service) DisconnectChatRoom(ctx context.Context, chatroomID int64, memberID int64) error {
	_, removed, err := s.presence.Decrement(ctx, chatroomID, memberID)
	if err != nil {
		return fmt.Errorf("%w: presence decrement: %v", ErrPersistence, err)
	}
	observability.IncPresenceOp("decrement")

	if removed {
		if err := s.ReadChattingInChatroom(ctx, chatroomID); err != nil {
			log.Printf("room vacated cleanup failed chatroom=%d: %v", chatroomID, err)
		}
	}
	return nil
}
