package models

import "time"

// Notification types delivered to users.
const (
	NotifTradeProposed  = "trade_proposed"
	NotifTradeAccepted  = "trade_accepted"
	NotifTradeDeclined  = "trade_declined"
	NotifTradeCompleted = "trade_completed"
	NotifTradeCancelled = "trade_cancelled"
	NotifMessage        = "message_received"
	NotifReview         = "review_received"
)

// Notification is a user-facing event stored in MongoDB. IDs are ULIDs so
// insertion order is sortable without a separate index.
type Notification struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Type      string    `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	RefID     string    `bson:"ref_id,omitempty" json:"ref_id,omitempty"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TradeEvent is an audit record of one trade status change, stored in
// MongoDB alongside notifications. Writes are best effort and never fail
// the transition that produced them.
type TradeEvent struct {
	ID         string    `bson:"_id" json:"id"`
	TradeID    string    `bson:"trade_id" json:"trade_id"`
	ActorID    string    `bson:"actor_id" json:"actor_id"`
	FromStatus string    `bson:"from_status" json:"from_status"`
	ToStatus   string    `bson:"to_status" json:"to_status"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
