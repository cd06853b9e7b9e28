package models

// ChatroomCounter records how many connections a member currently has open
// into a room. Ephemeral: created on first connect, removed when the count
// reaches zero. Absence of counters for a room means nobody is present.
type ChatroomCounter struct {
	ChatroomID int64 `json:"chatroom_id"`
	MemberID   int64 `json:"member_id"`
	Count      int64 `json:"count"`
}
