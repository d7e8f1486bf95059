package report

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// ReportService files abuse reports. Moderation happens through the admin
// CLI, so the HTTP surface only creates them.
type ReportService struct {
	reports store.ReportStore
	items   store.ItemStore
}

func NewReportService(reports store.ReportStore, items store.ItemStore) *ReportService {
	return &ReportService{reports: reports, items: items}
}

type createRequest struct {
	Reason      string  `json:"reason" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ItemID      *string `json:"item_id" validate:"omitempty,uuid"`
}

// Create files a report. It starts PENDING and is append-only from here.
func (s *ReportService) Create(c fiber.Ctx) error {
	var req createRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	reason := models.ReportReason(req.Reason)
	if !reason.Valid() {
		return apperr.Validation("unknown report reason")
	}

	report := &models.Report{
		ID:          uuid.New(),
		ReporterID:  middleware.UserID(c),
		Reason:      reason,
		Description: req.Description,
		Status:      models.ReportPending,
		CreatedAt:   time.Now(),
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
		report.ItemID = &itemID
	}

	if err := s.reports.Create(c.Context(), report); err != nil {
		return apperr.Internal(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "report": report})
}
