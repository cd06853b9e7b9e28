package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"market-chat-service/internal/models"
)

// PresenceRepository tracks open connections per (chatroom, member). The
// store's atomic primitives serialize concurrent increments and decrements
// for the same key; the service layer holds no locks of its own.
type PresenceRepository interface {
	Increment(ctx context.Context, chatroomID int64, memberID int64) (int64, error)
	Decrement(ctx context.Context, chatroomID int64, memberID int64) (int64, bool, error)
	FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.ChatroomCounter, error)
	DeleteAll(ctx context.Context) error
}

// PresenceRepo keeps one hash per chatroom, field = member id, value = count.
type PresenceRepo struct {
	client *redis.Client
}

// NewPresenceRepo constructs a PresenceRepo.
func NewPresenceRepo(client *redis.Client) *PresenceRepo {
	return &PresenceRepo{client: client}
}

// decrementScript floors the counter at zero and deletes the field when the
// last connection goes away. Returns -1 when no counter existed.
var decrementScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if not current then
  return -1
end
if tonumber(current) <= 1 then
  redis.call('HDEL', KEYS[1], ARGV[1])
  return 0
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
`)

func presenceKey(chatroomID int64) string {
	return fmt.Sprintf("chatroom:%d:presence", chatroomID)
}

// Increment records one more open connection and returns the new count.
func (r *PresenceRepo) Increment(ctx context.Context, chatroomID int64, memberID int64) (int64, error) {
	return r.client.HIncrBy(ctx, presenceKey(chatroomID), strconv.FormatInt(memberID, 10), 1).Result()
}

// Decrement records a closed connection. Returns the remaining count and
// whether the counter was removed. A decrement with no counter present is a
// no-op, not an error: duplicate disconnect signals are expected, and they
// do not report a removal.
func (r *PresenceRepo) Decrement(ctx context.Context, chatroomID int64, memberID int64) (int64, bool, error) {
	result, err := decrementScript.Run(ctx, r.client, []string{presenceKey(chatroomID)}, strconv.FormatInt(memberID, 10)).Int64()
	if err != nil {
		return 0, false, err
	}
	count, removed := decrementOutcome(result)
	return count, removed, nil
}

// decrementOutcome maps the script result: -1 means no counter existed
// (no-op), 0 means the last connection just went away.
func decrementOutcome(result int64) (int64, bool) {
	switch {
	case result < 0:
		return 0, false
	case result == 0:
		return 0, true
	default:
		return result, false
	}
}

// FindByChatroomID enumerates the counters for a room. An empty result means
// nobody is currently present.
func (r *PresenceRepo) FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.ChatroomCounter, error) {
	fields, err := r.client.HGetAll(ctx, presenceKey(chatroomID)).Result()
	if err != nil {
		return nil, err
	}

	counters := make([]models.ChatroomCounter, 0, len(fields))
	for field, value := range fields {
		memberID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("presence field %q: %w", field, err)
		}
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("presence value %q: %w", value, err)
		}
		counters = append(counters, models.ChatroomCounter{ChatroomID: chatroomID, MemberID: memberID, Count: count})
	}
	return counters, nil
}

// DeleteAll removes every presence key. Test teardown only.
func (r *PresenceRepo) DeleteAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "chatroom:*:presence", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
