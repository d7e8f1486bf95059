package notification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/store"
)

// NotificationService reads the MongoDB-backed notification feed.
type NotificationService struct {
	events store.EventStore
}

func NewNotificationService(events store.EventStore) *NotificationService {
	return &NotificationService{events: events}
}

type listRequest struct {
	UnreadOnly bool `json:"unread_only"`
	Limit      int  `json:"limit" validate:"omitempty,gte=0,lte=100"`
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(c fiber.Ctx) error {
	var req listRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	notifications, err := s.events.Notifications(c.Context(), middleware.UserID(c).String(), req.UnreadOnly, req.Limit)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "notifications": notifications, "count": len(notifications)})
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

// MarkRead flags the given notifications as read, or every one of the
// caller's when no ids are passed.
func (s *NotificationService) MarkRead(c fiber.Ctx) error {
	var req markReadRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	if err := s.events.MarkNotificationsRead(c.Context(), middleware.UserID(c).String(), req.IDs); err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
