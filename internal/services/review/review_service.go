package review

import (
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

// ReviewService handles post-trade reviews. Creating one recomputes the
// reviewee's reputation inside the store transaction.
type ReviewService struct {
	reviews store.ReviewStore
	trades  store.TradeStore
	events  store.EventStore
}

func NewReviewService(reviews store.ReviewStore, trades store.TradeStore, events store.EventStore) *ReviewService {
	return &ReviewService{reviews: reviews, trades: trades, events: events}
}

type createRequest struct {
	TradeID string  `json:"trade_id" validate:"required,uuid"`
	Rating  int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// Create reviews the counterparty of a completed trade. One review per
// reviewer per trade.
func (s *ReviewService) Create(c fiber.Ctx) error {
	var req createRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if !models.ValidRating(req.Rating) {
		return apperr.Validation("rating must be between 1 and 5")
	}

	tradeID, err := uuid.Parse(req.TradeID)
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

	callerID := middleware.UserID(c)
	if !trade.IsParty(callerID) {
		return apperr.Forbidden("you are not a party to this trade")
	}
	if trade.Status != models.TradeCompleted {
		return apperr.Conflict("trade is not completed")
	}

	review := &models.Review{
		ID:         uuid.New(),
		TradeID:    trade.ID,
		ReviewerID: callerID,
		RevieweeID: trade.OtherParty(callerID),
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}
	if err := s.reviews.Create(c.Context(), review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("you already reviewed this trade")
		}
		return apperr.Internal(err)
	}

	err = s.events.AddNotification(c.Context(), &models.Notification{
		UserID:    review.RevieweeID.String(),
		Type:      models.NotifReview,
		Title:     "New review",
		Body:      "A trade partner left you a review.",
		RefID:     review.ID.String(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("notify %s: %v", review.RevieweeID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": review})
}

type listForUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Limit  int    `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset int    `json:"offset" validate:"omitempty,gte=0"`
}

// ListForUser returns the reviews a user has received, newest first.
func (s *ReviewService) ListForUser(c fiber.Ctx) error {
	var req listForUserRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	reviews, err := s.reviews.ListForUser(c.Context(), userID, req.Limit, req.Offset)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}

type myReviewsRequest struct {
	Limit  int `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset int `json:"offset" validate:"omitempty,gte=0"`
}

// MyReviews returns the reviews the caller wrote or received, newest first.
func (s *ReviewService) MyReviews(c fiber.Ctx) error {
	var req myReviewsRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	reviews, err := s.reviews.ListByUser(c.Context(), middleware.UserID(c), req.Limit, req.Offset)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}
