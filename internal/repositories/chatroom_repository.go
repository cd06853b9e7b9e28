package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market-chat-service/internal/models"
)

var (
	ErrChatroomNotFound = errors.New("chatroom not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrSelfChat         = errors.New("cannot open a chatroom with yourself")
)

// ChatroomRepository abstracts chatroom persistence.
type ChatroomRepository interface {
	CreateOrGet(ctx context.Context, productID int64, buyerID int64) (models.Chatroom, error)
	Get(ctx context.Context, chatroomID int64) (models.Chatroom, error)
	IsParticipant(ctx context.Context, chatroomID int64, memberID int64) (bool, error)
	ListForMember(ctx context.Context, memberID int64) ([]models.ChatroomSummary, error)
}

// ChatroomRepo is a sqlx implementation of ChatroomRepository.
type ChatroomRepo struct {
	db *sqlx.DB
}

// NewChatroomRepo constructs a ChatroomRepo.
func NewChatroomRepo(db *sqlx.DB) *ChatroomRepo {
	return &ChatroomRepo{db: db}
}

// CreateOrGet returns the chatroom for (product, buyer), creating it on first
// contact. The UNIQUE(product_id, buyer_id) index plus ON CONFLICT DO NOTHING
// keeps creation idempotent under concurrent first contacts.
func (r *ChatroomRepo) CreateOrGet(ctx context.Context, productID int64, buyerID int64) (models.Chatroom, error) {
	var sellerID int64
	err := r.db.GetContext(ctx, &sellerID, `SELECT seller_id FROM products WHERE id=$1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chatroom{}, ErrProductNotFound
	}
	if err != nil {
		return models.Chatroom{}, err
	}
	if sellerID == buyerID {
		return models.Chatroom{}, ErrSelfChat
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO chatrooms (product_id, seller_id, buyer_id) VALUES ($1, $2, $3)
        ON CONFLICT (product_id, buyer_id) DO NOTHING`, productID, sellerID, buyerID); err != nil {
		return models.Chatroom{}, err
	}

	var room models.Chatroom
	err = r.db.GetContext(ctx, &room, `SELECT id, product_id, seller_id, buyer_id, created_at
        FROM chatrooms WHERE product_id=$1 AND buyer_id=$2`, productID, buyerID)
	return room, err
}

// Get fetches a chatroom by id.
func (r *ChatroomRepo) Get(ctx context.Context, chatroomID int64) (models.Chatroom, error) {
	var room models.Chatroom
	err := r.db.GetContext(ctx, &room, `SELECT id, product_id, seller_id, buyer_id, created_at FROM chatrooms WHERE id=$1`, chatroomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chatroom{}, ErrChatroomNotFound
	}
	return room, err
}

// IsParticipant checks whether a member belongs to the chatroom.
func (r *ChatroomRepo) IsParticipant(ctx context.Context, chatroomID int64, memberID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chatrooms WHERE id=$1 AND (seller_id=$2 OR buyer_id=$2))`, chatroomID, memberID)
	return exists, err
}

// ListForMember returns the chatrooms the member participates in.
func (r *ChatroomRepo) ListForMember(ctx context.Context, memberID int64) ([]models.ChatroomSummary, error) {
	query := `SELECT id, product_id, seller_id, buyer_id, created_at FROM chatrooms
        WHERE seller_id=$1 OR buyer_id=$1
        ORDER BY created_at DESC`
	rows, err := r.db.QueryxContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatroomSummary
	for rows.Next() {
		var room models.Chatroom
		if err := rows.StructScan(&room); err != nil {
			return nil, err
		}
		result = append(result, models.ChatroomSummary{
			ChatroomID:    room.ID,
			ProductID:     room.ProductID,
			CounterpartID: room.Counterpart(memberID),
			Created:       room.CreatedAt,
		})
	}
	return result, rows.Err()
}
