package models

import (
	"time"

	"github.com/google/uuid"
)

// University is a campus tenant. Every user and item belongs to exactly one.
type University struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	EmailDomain string    `json:"email_domain"`
	Location    string    `json:"location,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
