package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users, optionally attached to an
// item or a trade negotiation for context.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	TradeID    *uuid.UUID `json:"trade_id,omitempty"`
	Content    string     `json:"content"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Hydrated for API responses.
	Sender *PublicProfile `json:"sender,omitempty"`
}

// Conversation summarizes a user's message thread with one counterparty:
// the latest message and how many of theirs remain unread.
type Conversation struct {
	CounterpartyID  uuid.UUID      `json:"counterparty_id"`
	Counterparty    *PublicProfile `json:"counterparty,omitempty"`
	LastMessageText string         `json:"last_message_text"`
	LastMessageTime time.Time      `json:"last_message_time"`
	UnreadCount     int            `json:"unread_count"`
}
