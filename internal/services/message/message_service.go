package message

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// MessageService handles direct messages between users and the inbox view.
type MessageService struct {
	messages store.MessageStore
	users    store.UserStore
	items    store.ItemStore
	trades   store.TradeStore
	events   store.EventStore
}

func NewMessageService(messages store.MessageStore, users store.UserStore, items store.ItemStore,
	trades store.TradeStore, events store.EventStore) *MessageService {
	return &MessageService{messages: messages, users: users, items: items, trades: trades, events: events}
}

func (s *MessageService) notify(ctx context.Context, userID uuid.UUID, messageID uuid.UUID) {
	err := s.events.AddNotification(ctx, &models.Notification{
		UserID:    userID.String(),
		Type:      models.NotifMessage,
		Title:     "New message",
		Body:      "You received a new message.",
		RefID:     messageID.String(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("notify %s: %v", userID, err)
	}
}

type sendRequest struct {
	ReceiverID string  `json:"receiver_id" validate:"required,uuid"`
	Content    string  `json:"content" validate:"required,min=1,max=2000"`
	ItemID     *string `json:"item_id" validate:"omitempty,uuid"`
	TradeID    *string `json:"trade_id" validate:"omitempty,uuid"`
}

// Send delivers a message, optionally anchored to an item or a trade the
// caller participates in.
func (s *MessageService) Send(c fiber.Ctx) error {
	var req sendRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	callerID := middleware.UserID(c)

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return apperr.Validation("invalid receiver id")
	}
	if receiverID == callerID {
		return apperr.Validation("cannot message yourself")
	}
	if _, err := s.users.GetByID(c.Context(), receiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("receiver not found")
		}
		return apperr.Internal(err)
	}

	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   callerID,
		ReceiverID: receiverID,
		Content:    req.Content,
		CreatedAt:  time.Now(),
	}

	if req.ItemID != nil {
		itemID, err := uuid.Parse(*req.ItemID)
		if err != nil {
			return apperr.Validation("invalid item id")
		}
		if _, err := s.items.GetByID(c.Context(), itemID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("item not found")
			}
			return apperr.Internal(err)
		}
		msg.ItemID = &itemID
	}

	if req.TradeID != nil {
		tradeID, err := uuid.Parse(*req.TradeID)
		if err != nil {
			return apperr.Validation("invalid trade id")
		}
		trade, err := s.trades.GetByID(c.Context(), tradeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("trade not found")
			}
			return apperr.Internal(err)
		}
		if !trade.IsParty(callerID) {
			return apperr.Forbidden("you are not a party to this trade")
		}
		msg.TradeID = &tradeID
	}

	if err := s.messages.Create(c.Context(), msg); err != nil {
		return apperr.Internal(err)
	}

	s.notify(c.Context(), receiverID, msg.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": msg})
}

type conversationRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Limit  int    `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset int    `json:"offset" validate:"omitempty,gte=0"`
}

// Conversation returns the caller's thread with one other user, newest
// first, and marks the incoming side read.
func (s *MessageService) Conversation(c fiber.Ctx) error {
	var req conversationRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	callerID := middleware.UserID(c)

	otherID, err := uuid.Parse(req.UserID)
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	other, err := s.users.GetByID(c.Context(), otherID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	if err := s.messages.MarkRead(c.Context(), callerID, otherID); err != nil {
		return apperr.Internal(err)
	}

	msgs, err := s.messages.Conversation(c.Context(), callerID, otherID, req.Limit, req.Offset)
	if err != nil {
		return apperr.Internal(err)
	}

	// Attach the counterparty's profile to their messages so clients can
	// render the thread without extra lookups.
	otherProfile := other.Public()
	for _, m := range msgs {
		if m.SenderID == otherID {
			m.Sender = &otherProfile
		}
	}

	return c.JSON(fiber.Map{"success": true, "messages": msgs, "count": len(msgs)})
}

// Inbox lists the caller's conversations: one entry per counterparty with
// the latest message and an unread count.
func (s *MessageService) Inbox(c fiber.Ctx) error {
	callerID := middleware.UserID(c)

	conversations, err := s.messages.Inbox(c.Context(), callerID)
	if err != nil {
		return apperr.Internal(err)
	}

	for _, conv := range conversations {
		u, err := s.users.GetByID(c.Context(), conv.CounterpartyID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return apperr.Internal(err)
		}
		profile := u.Public()
		conv.Counterparty = &profile
	}

	return c.JSON(fiber.Map{"success": true, "conversations": conversations, "count": len(conversations)})
}
