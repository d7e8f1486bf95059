package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is post-trade feedback left by one party about the other.
// A trade yields at most one review per reviewer; the reviewee is always
// the counterparty, never chosen by the client.
type Review struct {
	ID         uuid.UUID `json:"id"`
	TradeID    uuid.UUID `json:"trade_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Hydrated for API responses.
	Reviewer *PublicProfile `json:"reviewer,omitempty"`
}

// ValidRating reports whether r is on the 1..5 scale.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
