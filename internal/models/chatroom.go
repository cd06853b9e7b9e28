package models

import "time"

// Chatroom is a conversation about one product between its seller and one buyer.
type Chatroom struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	SellerID  int64     `db:"seller_id" json:"seller_id"`
	BuyerID   int64     `db:"buyer_id" json:"buyer_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Participant reports whether the member belongs to the chatroom.
func (c Chatroom) Participant(memberID int64) bool {
	return c.SellerID == memberID || c.BuyerID == memberID
}

// Counterpart returns the other participant of the room.
func (c Chatroom) Counterpart(memberID int64) int64 {
	if c.SellerID == memberID {
		return c.BuyerID
	}
	return c.SellerID
}

// ChatroomSummary is the API-facing view of a chatroom for one member.
type ChatroomSummary struct {
	ChatroomID    int64     `db:"id" json:"chatroom_id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	CounterpartID int64     `json:"counterpart_id"`
	Created       time.Time `db:"created_at" json:"created_at"`
}
