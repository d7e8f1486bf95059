package university

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/store"
)

// UniversityService exposes the campus registry. Enrollment happens through
// the admin CLI, so the HTTP surface is read only.
type UniversityService struct {
	universities store.UniversityStore
}

func NewUniversityService(universities store.UniversityStore) *UniversityService {
	return &UniversityService{universities: universities}
}

type listRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

// List returns the registered universities, active ones by default.
func (s *UniversityService) List(c fiber.Ctx) error {
	var req listRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	universities, err := s.universities.List(c.Context(), !req.IncludeInactive)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "universities": universities})
}

type getByIDRequest struct {
	UniversityID string `json:"university_id" validate:"required,uuid"`
}

// GetByID returns one university.
func (s *UniversityService) GetByID(c fiber.Ctx) error {
	var req getByIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.UniversityID)
	if err != nil {
		return apperr.Validation("invalid university id")
	}

	university, err := s.universities.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("university not found")
		}
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "university": university})
}
