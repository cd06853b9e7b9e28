package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chatting is a chat message persisted in the chattings collection. Once
// written it is immutable except for ReadCount, which only grows.
type Chatting struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatroomID int64              `bson:"chatroom_id" json:"chatroom_id"`
	SenderID   int64              `bson:"sender_id" json:"sender_id"`
	Content    string             `bson:"content" json:"content"`
	ReadCount  int                `bson:"read_count" json:"read_count"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Message is the wire representation of a chat event flowing through the
// broker and the websocket transport. It is derived from a Chatting, never
// stored itself.
type Message struct {
	SenderID   int64  `json:"senderId"`
	ChatroomID int64  `json:"chatroomId"`
	Content    string `json:"content"`
}
