package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market-chat-service/internal/models"
)

var (
	ErrMemberNotFound = errors.New("member not found")
)

// MemberRepository abstracts member lookups for the chat core.
type MemberRepository interface {
	Get(ctx context.Context, memberID int64) (models.Member, error)
	ExistsNickname(ctx context.Context, nickname string) (bool, error)
}

// MemberRepo is a sqlx implementation of MemberRepository.
type MemberRepo struct {
	db *sqlx.DB
}

// NewMemberRepo constructs a MemberRepo.
func NewMemberRepo(db *sqlx.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// Get fetches a member by id.
func (r *MemberRepo) Get(ctx context.Context, memberID int64) (models.Member, error) {
	var member models.Member
	err := r.db.GetContext(ctx, &member, `SELECT id, nickname, avatar_url, created_at FROM members WHERE id=$1`, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

// ExistsNickname reports whether the nickname is already taken.
func (r *MemberRepo) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM members WHERE nickname=$1)`, nickname)
	return exists, err
}
