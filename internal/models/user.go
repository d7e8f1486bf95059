package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderCredentials is the provider id of the password-based Account.
const ProviderCredentials = "credentials"

// DefaultReputation is the score a user starts with and keeps until the
// first review comes in.
const DefaultReputation = 5.0

// User is a registered member of a campus marketplace.
//
// ReputationScore and TotalTrades are never written by profile updates; they
// change only inside trade-completion and review-creation transactions.
type User struct {
	ID              uuid.UUID `json:"id"`
	UniversityID    uuid.UUID `json:"university_id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	IsVerified      bool      `json:"is_verified"`
	Major           *string   `json:"major,omitempty"`
	GraduationYear  *int      `json:"graduation_year,omitempty"`
	DormLocation    *string   `json:"dorm_location,omitempty"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	ReputationScore float64   `json:"reputation_score"`
	TotalTrades     int       `json:"total_trades"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Account links a User to an auth provider. For the credentials provider the
// bcrypt hash is set; it is never serialized.
type Account struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ProviderID   string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Session records an issued token by its jti claim. The auth middleware
// requires a live, unexpired row, so deleting it invalidates the token.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRef is the reduced projection returned by register and login.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Ref returns the reduced projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Email: u.Email, Name: u.Name}
}

// PublicProfile is the restricted projection served to other users: no
// email, phone or dorm location.
type PublicProfile struct {
	ID              uuid.UUID `json:"id"`
	UniversityID    uuid.UUID `json:"university_id"`
	Name            string    `json:"name"`
	IsVerified      bool      `json:"is_verified"`
	Major           *string   `json:"major,omitempty"`
	GraduationYear  *int      `json:"graduation_year,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	ReputationScore float64   `json:"reputation_score"`
	TotalTrades     int       `json:"total_trades"`
	CreatedAt       time.Time `json:"created_at"`
}

// Public returns the restricted projection of u.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		UniversityID:    u.UniversityID,
		Name:            u.Name,
		IsVerified:      u.IsVerified,
		Major:           u.Major,
		GraduationYear:  u.GraduationYear,
		ProfileImageURL: u.ProfileImageURL,
		ReputationScore: u.ReputationScore,
		TotalTrades:     u.TotalTrades,
		CreatedAt:       u.CreatedAt,
	}
}

// ProfileUpdate carries the allow-listed mutable profile fields. Nil means
// "leave unchanged". Email, reputation and trade counters are deliberately
// not representable here.
type ProfileUpdate struct {
	Name            *string
	Major           *string
	GraduationYear  *int
	DormLocation    *string
	PhoneNumber     *string
	ProfileImageURL *string
}
