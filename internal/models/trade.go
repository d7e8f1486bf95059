package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TradeStatus tracks a proposal through its lifecycle.
type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeAccepted  TradeStatus = "ACCEPTED"
	TradeDeclined  TradeStatus = "DECLINED"
	TradeCompleted TradeStatus = "COMPLETED"
	TradeCancelled TradeStatus = "CANCELLED"
)

func (s TradeStatus) Valid() bool {
	switch s {
	case TradePending, TradeAccepted, TradeDeclined, TradeCompleted, TradeCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s TradeStatus) Terminal() bool {
	switch s {
	case TradeDeclined, TradeCompleted, TradeCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the move from s to next is legal.
// PENDING may become ACCEPTED, DECLINED or CANCELLED; ACCEPTED may
// become COMPLETED or CANCELLED. Everything else is frozen.
func (s TradeStatus) CanTransition(next TradeStatus) bool {
	switch s {
	case TradePending:
		return next == TradeAccepted || next == TradeDeclined || next == TradeCancelled
	case TradeAccepted:
		return next == TradeCompleted || next == TradeCancelled
	}
	return false
}

// Rule violations surfaced by Trade methods. Services map these to the
// wire error codes: party errors to FORBIDDEN, state errors to CONFLICT.
var (
	ErrNotParty         = errors.New("user is not a party to this trade")
	ErrNotReceiver      = errors.New("only the receiver may respond to a proposal")
	ErrTradeNotPending  = errors.New("trade is no longer pending")
	ErrTradeNotAccepted = errors.New("trade is not in accepted state")
	ErrTradeFinished    = errors.New("trade has already finished")
	ErrAlreadyConfirmed = errors.New("completion already confirmed")
)

// Trade is a proposed exchange of item sets between two users. Both item
// sets are non-empty and owned by their respective party at proposal time.
type Trade struct {
	ID                uuid.UUID   `json:"id"`
	SenderID          uuid.UUID   `json:"sender_id"`
	ReceiverID        uuid.UUID   `json:"receiver_id"`
	SenderItemIDs     []uuid.UUID `json:"sender_item_ids"`
	ReceiverItemIDs   []uuid.UUID `json:"receiver_item_ids"`
	Message           *string     `json:"message,omitempty"`
	MeetingLocation   *string     `json:"meeting_location,omitempty"`
	MeetingTime       *time.Time  `json:"meeting_time,omitempty"`
	Status            TradeStatus `json:"status"`
	SenderConfirmed   bool        `json:"sender_confirmed"`
	ReceiverConfirmed bool        `json:"receiver_confirmed"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsParty reports whether userID is the sender or the receiver.
func (t *Trade) IsParty(userID uuid.UUID) bool {
	return userID == t.SenderID || userID == t.ReceiverID
}

// OtherParty returns the counterparty of userID. The caller must already
// be a party.
func (t *Trade) OtherParty(userID uuid.UUID) uuid.UUID {
	if userID == t.SenderID {
		return t.ReceiverID
	}
	return t.SenderID
}

// ItemIDs returns every item on both sides of the trade.
func (t *Trade) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.SenderItemIDs)+len(t.ReceiverItemIDs))
	ids = append(ids, t.SenderItemIDs...)
	ids = append(ids, t.ReceiverItemIDs...)
	return ids
}

// Accept moves a pending trade to ACCEPTED. Only the receiver may accept.
func (t *Trade) Accept(callerID uuid.UUID) error {
	if !t.IsParty(callerID) {
		return ErrNotParty
	}
	if callerID != t.ReceiverID {
		return ErrNotReceiver
	}
	if t.Status != TradePending {
		return ErrTradeNotPending
	}
	t.Status = TradeAccepted
	return nil
}

// Decline moves a pending trade to DECLINED. Only the receiver may decline.
func (t *Trade) Decline(callerID uuid.UUID) error {
	if !t.IsParty(callerID) {
		return ErrNotParty
	}
	if callerID != t.ReceiverID {
		return ErrNotReceiver
	}
	if t.Status != TradePending {
		return ErrTradeNotPending
	}
	t.Status = TradeDeclined
	return nil
}

// Confirm records callerID's completion confirmation on an accepted trade
// and reports whether both parties have now confirmed. The caller is
// responsible for finalizing the trade when it returns true.
func (t *Trade) Confirm(callerID uuid.UUID) (bool, error) {
	if !t.IsParty(callerID) {
		return false, ErrNotParty
	}
	if t.Status != TradeAccepted {
		return false, ErrTradeNotAccepted
	}
	if callerID == t.SenderID {
		if t.SenderConfirmed {
			return false, ErrAlreadyConfirmed
		}
		t.SenderConfirmed = true
	} else {
		if t.ReceiverConfirmed {
			return false, ErrAlreadyConfirmed
		}
		t.ReceiverConfirmed = true
	}
	return t.SenderConfirmed && t.ReceiverConfirmed, nil
}

// Cancel aborts a trade that has not finished. Either party may cancel
// while the trade is PENDING or ACCEPTED.
func (t *Trade) Cancel(callerID uuid.UUID) error {
	if !t.IsParty(callerID) {
		return ErrNotParty
	}
	if t.Status != TradePending && t.Status != TradeAccepted {
		return ErrTradeFinished
	}
	t.Status = TradeCancelled
	return nil
}

// TradeFilter narrows a user's trade listing.
type TradeFilter struct {
	UserID uuid.UUID
	Status *TradeStatus
	Limit  int
	Offset int
}
