package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"market-chat-service/internal/models"
)

var ErrChattingNotFound = errors.New("chatting not found")

// maxReadCount is the read ceiling per message. Chatrooms are two-party, so
// at most one non-sender participant can read a message.
const maxReadCount = 1

// ChattingRepository abstracts the append-only chat log. Insertion order of
// Save calls for a chatroom defines the room's log order.
type ChattingRepository interface {
	Save(ctx context.Context, chatting models.Chatting) (models.Chatting, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Chatting, error)
	FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.Chatting, error)
	MarkReadExcludingSender(ctx context.Context, chatroomID int64, excludedSenderID int64) (int64, error)
	DeleteAll(ctx context.Context) error
}

// ChattingRepo is a mongo-backed repository.
type ChattingRepo struct {
	collection *mongo.Collection
}

// NewChattingRepo constructs a ChattingRepo on the chattings collection.
func NewChattingRepo(database *mongo.Database) *ChattingRepo {
	return &ChattingRepo{collection: database.Collection("chattings")}
}

// Save appends a chatting to the log and returns it with its assigned id.
func (r *ChattingRepo) Save(ctx context.Context, chatting models.Chatting) (models.Chatting, error) {
	if chatting.ID.IsZero() {
		chatting.ID = primitive.NewObjectID()
	}
	if chatting.CreatedAt.IsZero() {
		chatting.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, chatting); err != nil {
		return models.Chatting{}, err
	}
	return chatting, nil
}

// FindByID retrieves a single chatting.
func (r *ChattingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Chatting, error) {
	var chatting models.Chatting
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chatting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Chatting{}, ErrChattingNotFound
	}
	return chatting, err
}

// logOrder pins the room log to insertion order. ObjectIDs are monotonic per
// process, so sorting by _id reproduces the order Save calls committed in.
var logOrder = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

// FindByChatroomID returns the room's log in insertion order.
func (r *ChattingRepo) FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.Chatting, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"chatroom_id": chatroomID}, logOrder)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chattings []models.Chatting
	if err := cursor.All(ctx, &chattings); err != nil {
		return nil, err
	}
	return chattings, nil
}

// MarkReadExcludingSender bumps the read count of every message in the room
// not sent by excludedSenderID and still below the read ceiling. The ceiling
// filter makes repeated calls idempotent and keeps counts monotonic.
func (r *ChattingRepo) MarkReadExcludingSender(ctx context.Context, chatroomID int64, excludedSenderID int64) (int64, error) {
	filter := bson.M{
		"chatroom_id": chatroomID,
		"sender_id":   bson.M{"$ne": excludedSenderID},
		"read_count":  bson.M{"$lt": maxReadCount},
	}
	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"read_count": 1}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DeleteAll wipes the log. Test teardown only.
func (r *ChattingRepo) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
