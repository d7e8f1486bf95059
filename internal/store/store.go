// Package store defines the persistence interfaces the services depend on
// and the sentinel errors every implementation maps its driver errors to.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
)

// Sentinel errors. Implementations translate driver-level failures into
// these so services never inspect driver errors directly.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrConflict  = errors.New("record changed concurrently")
)

// UserStore persists users, their credential accounts and profile edits.
type UserStore interface {
	// CreateWithAccount inserts the user and its credentials account in one
	// transaction. ErrDuplicate when the email is taken.
	CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// AccountFor returns the provider account backing a user's login.
	AccountFor(ctx context.Context, userID uuid.UUID, providerID string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

// UniversityStore persists the campus registry.
type UniversityStore interface {
	// Create inserts a university. ErrDuplicate when the email domain is taken.
	Create(ctx context.Context, u *models.University) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.University, error)
	GetByEmailDomain(ctx context.Context, domain string) (*models.University, error)
	List(ctx context.Context, activeOnly bool) ([]*models.University, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// SessionStore persists issued-token records keyed by jti. A missing row
// means the token was revoked.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error)
	DeleteByTokenID(ctx context.Context, tokenID string) error
	// DeleteExpired prunes sessions past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ItemStore persists listings. Status moves use compare-and-set guards so
// concurrent trade flows cannot double-book an item.
type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error)
	List(ctx context.Context, f models.ItemFilter) ([]*models.Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, includeRemoved bool) ([]*models.Item, error)
	// Update edits an item that is still AVAILABLE. ErrConflict when the
	// item has entered a trade since it was loaded.
	Update(ctx context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error)
	// SetStatus is a guarded transition: the row must currently be in from.
	SetStatus(ctx context.Context, id uuid.UUID, from, to models.ItemStatus) error
}

// TradeStore persists trades and runs the multi-row lifecycle transactions.
// Accept, Confirm and Cancel re-check status inside the transaction, so a
// lost race surfaces as ErrConflict rather than a corrupt state.
type TradeStore interface {
	Create(ctx context.Context, t *models.Trade) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	ListByUser(ctx context.Context, f models.TradeFilter) ([]*models.Trade, error)
	// Transition performs a guarded status change with no side effects
	// (PENDING -> DECLINED).
	Transition(ctx context.Context, id uuid.UUID, from, to models.TradeStatus) error
	// Accept moves a PENDING trade to ACCEPTED and reserves every item on
	// both sides, AVAILABLE -> PENDING_TRADE, in one transaction.
	Accept(ctx context.Context, t *models.Trade) error
	// Confirm records one party's completion confirmation on an ACCEPTED
	// trade. The second confirmation completes the trade in the same
	// transaction: items become TRADED, both parties' total_trades
	// increment, completed_at is set. Reports whether this call completed
	// the trade.
	Confirm(ctx context.Context, id uuid.UUID, bySender bool) (bool, error)
	// Cancel moves a trade from the given status to CANCELLED. When it was
	// ACCEPTED the reserved items are released back to AVAILABLE.
	Cancel(ctx context.Context, t *models.Trade, from models.TradeStatus) error
}

// MessageStore persists direct messages and conversation summaries.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	// Conversation returns the messages between two users, newest first.
	Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*models.Message, error)
	// MarkRead flags every message from senderID to recipientID as read.
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error
	// Inbox returns one summary per counterparty, most recent first.
	Inbox(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
}

// ReviewStore persists post-trade reviews and keeps reputation scores
// consistent with them.
type ReviewStore interface {
	// Create inserts the review and recomputes the reviewee's reputation
	// in one transaction. ErrDuplicate when the reviewer already reviewed
	// this trade.
	Create(ctx context.Context, r *models.Review) error
	// ListForUser returns the reviews received by a user, newest first.
	ListForUser(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]*models.Review, error)
	// ListByUser returns the reviews a user wrote or received, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Review, error)
}

// ReportStore persists abuse reports.
type ReportStore interface {
	Create(ctx context.Context, r *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, status *models.ReportStatus, limit, offset int) ([]*models.Report, error)
	// UpdateStatus moves a report through moderation. Terminal states stamp
	// the resolution timestamp.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, note, resolvedBy *string) error
}

// EventStore is the MongoDB side channel for audit events and user
// notifications. Callers treat writes as best effort.
type EventStore interface {
	LogTradeEvent(ctx context.Context, e *models.TradeEvent) error
	AddNotification(ctx context.Context, n *models.Notification) error
	Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	// MarkNotificationsRead flags the given notifications of userID as
	// read. An empty ids list marks all of them.
	MarkNotificationsRead(ctx context.Context, userID string, ids []string) error
}
