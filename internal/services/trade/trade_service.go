package trade

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

// TradeService drives the trade lifecycle. Each mutation loads the trade,
// applies the state machine on the snapshot for precise error codes, then
// runs the guarded store transition that settles races.
type TradeService struct {
	trades store.TradeStore
	items  store.ItemStore
	users  store.UserStore
	events store.EventStore
}

func NewTradeService(trades store.TradeStore, items store.ItemStore, users store.UserStore,
	events store.EventStore) *TradeService {
	return &TradeService{trades: trades, items: items, users: users, events: events}
}

// lifecycleErr maps state-machine violations to wire errors: wrong party is
// FORBIDDEN, an illegal transition is CONFLICT.
func lifecycleErr(err error) error {
	switch {
	case errors.Is(err, models.ErrNotParty):
		return apperr.Forbidden("you are not a party to this trade")
	case errors.Is(err, models.ErrNotReceiver):
		return apperr.Forbidden("only the receiver may respond to a proposal")
	case errors.Is(err, models.ErrTradeNotPending),
		errors.Is(err, models.ErrTradeNotAccepted),
		errors.Is(err, models.ErrTradeFinished),
		errors.Is(err, models.ErrAlreadyConfirmed):
		return apperr.Conflict(err.Error())
	}
	return apperr.Internal(err)
}

// storeErr maps guarded-transition failures after the snapshot checks
// passed: the trade moved underneath us.
func storeErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("trade not found")
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict("trade state changed, reload and retry")
	}
	return apperr.Internal(err)
}

func (s *TradeService) logEvent(ctx context.Context, tradeID, actorID uuid.UUID, from, to models.TradeStatus) {
	err := s.events.LogTradeEvent(ctx, &models.TradeEvent{
		TradeID:    tradeID.String(),
		ActorID:    actorID.String(),
		FromStatus: string(from),
		ToStatus:   string(to),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("log trade event %s: %v", tradeID, err)
	}
}

func (s *TradeService) notify(ctx context.Context, userID uuid.UUID, typ, title, body string, tradeID uuid.UUID) {
	err := s.events.AddNotification(ctx, &models.Notification{
		UserID:    userID.String(),
		Type:      typ,
		Title:     title,
		Body:      body,
		RefID:     tradeID.String(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("notify %s: %v", userID, err)
	}
}

type proposeRequest struct {
	ReceiverItemIDs []string   `json:"receiver_item_ids" validate:"required,min=1,max=10,dive,uuid"`
	SenderItemIDs   []string   `json:"sender_item_ids" validate:"required,min=1,max=10,dive,uuid"`
	Message         *string    `json:"message" validate:"omitempty,max=1000"`
	MeetingLocation *string    `json:"meeting_location" validate:"omitempty,max=200"`
	MeetingTime     *time.Time `json:"meeting_time"`
}

// checkItems loads a proposal side and verifies single ownership and
// availability. It returns the owner shared by every item in the set.
func (s *TradeService) checkItems(ctx context.Context, rawIDs []string) ([]uuid.UUID, uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, uuid.Nil, apperr.Validation("invalid item id")
		}
		ids = append(ids, id)
	}

	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, uuid.Nil, apperr.Internal(err)
	}
	if len(items) != len(ids) {
		return nil, uuid.Nil, apperr.NotFound("item not found")
	}

	owner := items[0].OwnerID
	for _, it := range items {
		if it.OwnerID != owner {
			return nil, uuid.Nil, apperr.Validation("items on one side must share an owner")
		}
		if it.Status != models.ItemAvailable {
			return nil, uuid.Nil, apperr.Conflict("item is not available for trading")
		}
	}
	return ids, owner, nil
}

// Propose creates a PENDING trade. The receiver set pins down who the
// proposal goes to; the sender set must belong to the caller.
func (s *TradeService) Propose(c fiber.Ctx) error {
	var req proposeRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	callerID := middleware.UserID(c)

	receiverItemIDs, receiverID, err := s.checkItems(c.Context(), req.ReceiverItemIDs)
	if err != nil {
		return err
	}
	if receiverID == callerID {
		return apperr.Validation("cannot propose a trade to yourself")
	}

	senderItemIDs, senderOwner, err := s.checkItems(c.Context(), req.SenderItemIDs)
	if err != nil {
		return err
	}
	if senderOwner != callerID {
		return apperr.Forbidden("you can only offer your own items")
	}

	now := time.Now()
	trade := &models.Trade{
		ID:              uuid.New(),
		SenderID:        callerID,
		ReceiverID:      receiverID,
		SenderItemIDs:   senderItemIDs,
		ReceiverItemIDs: receiverItemIDs,
		Message:         req.Message,
		MeetingLocation: req.MeetingLocation,
		MeetingTime:     req.MeetingTime,
		Status:          models.TradePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.trades.Create(c.Context(), trade); err != nil {
		return apperr.Internal(err)
	}

	s.logEvent(c.Context(), trade.ID, callerID, "", models.TradePending)
	s.notify(c.Context(), receiverID, models.NotifTradeProposed,
		"New trade proposal", "Someone proposed a trade for your items.", trade.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "trade": trade})
}

type tradeIDRequest struct {
	TradeID string `json:"trade_id" validate:"required,uuid"`
}

// load parses the request and fetches the trade.
func (s *TradeService) load(c fiber.Ctx) (*models.Trade, error) {
	var req tradeIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return nil, apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.TradeID)
	if err != nil {
		return nil, apperr.Validation("invalid trade id")
	}

	trade, err := s.trades.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("trade not found")
		}
		return nil, apperr.Internal(err)
	}
	return trade, nil
}

// GetByID returns one trade to its parties.
func (s *TradeService) GetByID(c fiber.Ctx) error {
	trade, err := s.load(c)
	if err != nil {
		return err
	}
	if !trade.IsParty(middleware.UserID(c)) {
		return apperr.Forbidden("you are not a party to this trade")
	}
	return c.JSON(fiber.Map{"success": true, "trade": trade})
}

// Accept moves a pending trade to ACCEPTED and reserves every item on both
// sides so no concurrent trade can book them.
func (s *TradeService) Accept(c fiber.Ctx) error {
	trade, err := s.load(c)
	if err != nil {
		return err
	}
	callerID := middleware.UserID(c)

	if err := trade.Accept(callerID); err != nil {
		return lifecycleErr(err)
	}
	if err := s.trades.Accept(c.Context(), trade); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperr.Conflict("items are no longer available")
		}
		return storeErr(err)
	}

	s.logEvent(c.Context(), trade.ID, callerID, models.TradePending, models.TradeAccepted)
	s.notify(c.Context(), trade.SenderID, models.NotifTradeAccepted,
		"Trade accepted", "Your trade proposal was accepted.", trade.ID)

	return c.JSON(fiber.Map{"success": true, "trade": trade})
}

// Decline moves a pending trade to DECLINED.
func (s *TradeService) Decline(c fiber.Ctx) error {
	trade, err := s.load(c)
	if err != nil {
		return err
	}
	callerID := middleware.UserID(c)

	if err := trade.Decline(callerID); err != nil {
		return lifecycleErr(err)
	}
	if err := s.trades.Transition(c.Context(), trade.ID, models.TradePending, models.TradeDeclined); err != nil {
		return storeErr(err)
	}

	s.logEvent(c.Context(), trade.ID, callerID, models.TradePending, models.TradeDeclined)
	s.notify(c.Context(), trade.SenderID, models.NotifTradeDeclined,
		"Trade declined", "Your trade proposal was declined.", trade.ID)

	return c.JSON(fiber.Map{"success": true, "trade": trade})
}

// Confirm records the caller's completion confirmation. The second
// confirmation completes the trade: items become TRADED and both parties'
// trade counters increment in the same transaction.
func (s *TradeService) Confirm(c fiber.Ctx) error {
	trade, err := s.load(c)
	if err != nil {
		return err
	}
	callerID := middleware.UserID(c)

	// Snapshot check for the precise error; the store call below is the
	// authoritative one and settles racing confirms.
	if _, err := trade.Confirm(callerID); err != nil {
		return lifecycleErr(err)
	}

	completed, err := s.trades.Confirm(c.Context(), trade.ID, callerID == trade.SenderID)
	if err != nil {
		return storeErr(err)
	}

	if completed {
		now := time.Now()
		trade.Status = models.TradeCompleted
		trade.CompletedAt = &now

		s.logEvent(c.Context(), trade.ID, callerID, models.TradeAccepted, models.TradeCompleted)
		s.notify(c.Context(), trade.SenderID, models.NotifTradeCompleted,
			"Trade completed", "Both parties confirmed the exchange.", trade.ID)
		s.notify(c.Context(), trade.ReceiverID, models.NotifTradeCompleted,
			"Trade completed", "Both parties confirmed the exchange.", trade.ID)
	}

	return c.JSON(fiber.Map{"success": true, "trade": trade, "completed": completed})
}

// Cancel aborts a pending or accepted trade and releases any reserved items.
func (s *TradeService) Cancel(c fiber.Ctx) error {
	trade, err := s.load(c)
	if err != nil {
		return err
	}
	callerID := middleware.UserID(c)

	from := trade.Status
	if err := trade.Cancel(callerID); err != nil {
		return lifecycleErr(err)
	}
	if err := s.trades.Cancel(c.Context(), trade, from); err != nil {
		return storeErr(err)
	}

	s.logEvent(c.Context(), trade.ID, callerID, from, models.TradeCancelled)
	s.notify(c.Context(), trade.OtherParty(callerID), models.NotifTradeCancelled,
		"Trade cancelled", "The trade was cancelled by the other party.", trade.ID)

	return c.JSON(fiber.Map{"success": true, "trade": trade})
}

type myTradesRequest struct {
	Status *string `json:"status"`
	Limit  int     `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset int     `json:"offset" validate:"omitempty,gte=0"`
}

// MyTrades returns the trades the caller participates in, newest first.
func (s *TradeService) MyTrades(c fiber.Ctx) error {
	var req myTradesRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	filter := models.TradeFilter{
		UserID: middleware.UserID(c),
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Status != nil {
		status := models.TradeStatus(*req.Status)
		if !status.Valid() {
			return apperr.Validation("unknown trade status")
		}
		filter.Status = &status
	}

	trades, err := s.trades.ListByUser(c.Context(), filter)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "trades": trades, "count": len(trades)})
}
