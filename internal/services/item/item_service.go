package item

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// ImageDestroyer wipes uploaded assets once an item no longer needs them.
// Implemented by the media service; removal treats it as best effort.
type ImageDestroyer interface {
	DestroyImages(ctx context.Context, urls []string)
}

// ItemService handles listing creation, browsing and the owner-side edits.
type ItemService struct {
	items  store.ItemStore
	users  store.UserStore
	images ImageDestroyer
}

func NewItemService(items store.ItemStore, users store.UserStore, images ImageDestroyer) *ItemService {
	return &ItemService{items: items, users: users, images: images}
}

type createRequest struct {
	Title          string   `json:"title" validate:"required,min=1,max=200"`
	Description    string   `json:"description" validate:"max=5000"`
	Category       string   `json:"category" validate:"required"`
	Condition      string   `json:"condition" validate:"required"`
	ImageURLs      []string `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	EstimatedValue *float64 `json:"estimated_value" validate:"omitempty,gte=0"`
	CampusLocation *string  `json:"campus_location"`
	LookingFor     *string  `json:"looking_for"`
	OpenToOffers   *bool    `json:"open_to_offers"`
}

// Create lists a new item under the caller. Owner and university come from
// the caller's profile, never from the request.
func (s *ItemService) Create(c fiber.Ctx) error {
	var req createRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	category := models.ItemCategory(req.Category)
	if !category.Valid() {
		return apperr.Validation("unknown item category")
	}
	condition := models.ItemCondition(req.Condition)
	if !condition.Valid() {
		return apperr.Validation("unknown item condition")
	}

	owner, err := s.users.GetByID(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	openToOffers := true
	if req.OpenToOffers != nil {
		openToOffers = *req.OpenToOffers
	}

	now := time.Now()
	item := &models.Item{
		ID:             uuid.New(),
		OwnerID:        owner.ID,
		UniversityID:   owner.UniversityID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       category,
		Condition:      condition,
		ImageURLs:      req.ImageURLs,
		EstimatedValue: req.EstimatedValue,
		CampusLocation: req.CampusLocation,
		LookingFor:     req.LookingFor,
		OpenToOffers:   openToOffers,
		Status:         models.ItemAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.items.Create(c.Context(), item); err != nil {
		return apperr.Internal(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "item": item})
}

type getByIDRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// GetByID returns one item. Removed items are hidden from everyone; owners
// still see them through users.myItems.
func (s *ItemService) GetByID(c fiber.Ctx) error {
	var req getByIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid item id")
	}

	item, err := s.items.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return apperr.Internal(err)
	}
	if item.Status == models.ItemRemoved {
		return apperr.NotFound("item not found")
	}
	return c.JSON(fiber.Map{"success": true, "item": item})
}

type listRequest struct {
	UniversityID *string `json:"university_id" validate:"omitempty,uuid"`
	Category     *string `json:"category"`
	Condition    *string `json:"condition"`
	Limit        int     `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset       int     `json:"offset" validate:"omitempty,gte=0"`
}

// List browses available items, optionally narrowed by campus, category and
// condition.
func (s *ItemService) List(c fiber.Ctx) error {
	var req listRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	filter := models.ItemFilter{Limit: req.Limit, Offset: req.Offset}
	if req.UniversityID != nil {
		id, err := uuid.Parse(*req.UniversityID)
		if err != nil {
			return apperr.Validation("invalid university id")
		}
		filter.UniversityID = &id
	}
	if req.Category != nil {
		category := models.ItemCategory(*req.Category)
		if !category.Valid() {
			return apperr.Validation("unknown item category")
		}
		filter.Category = &category
	}
	if req.Condition != nil {
		condition := models.ItemCondition(*req.Condition)
		if !condition.Valid() {
			return apperr.Validation("unknown item condition")
		}
		filter.Condition = &condition
	}

	items, err := s.items.List(c.Context(), filter)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "items": items, "count": len(items)})
}

type updateRequest struct {
	ItemID         string   `json:"item_id" validate:"required,uuid"`
	Title          *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	Category       *string  `json:"category"`
	Condition      *string  `json:"condition"`
	ImageURLs      []string `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	EstimatedValue *float64 `json:"estimated_value" validate:"omitempty,gte=0"`
	CampusLocation *string  `json:"campus_location"`
	LookingFor     *string  `json:"looking_for"`
	OpenToOffers   *bool    `json:"open_to_offers"`
}

// Update edits an item the caller owns while it is still available.
func (s *ItemService) Update(c fiber.Ctx) error {
	var req updateRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid item id")
	}

	upd := models.ItemUpdate{
		Title:          req.Title,
		Description:    req.Description,
		ImageURLs:      req.ImageURLs,
		EstimatedValue: req.EstimatedValue,
		CampusLocation: req.CampusLocation,
		LookingFor:     req.LookingFor,
		OpenToOffers:   req.OpenToOffers,
	}
	if req.Category != nil {
		category := models.ItemCategory(*req.Category)
		if !category.Valid() {
			return apperr.Validation("unknown item category")
		}
		upd.Category = &category
	}
	if req.Condition != nil {
		condition := models.ItemCondition(*req.Condition)
		if !condition.Valid() {
			return apperr.Validation("unknown item condition")
		}
		upd.Condition = &condition
	}

	item, err := s.items.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return apperr.Internal(err)
	}
	if item.OwnerID != middleware.UserID(c) {
		return apperr.Forbidden("only the owner may edit an item")
	}

	item, err = s.items.Update(c.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apperr.NotFound("item not found")
		case errors.Is(err, store.ErrConflict):
			return apperr.Conflict("item is no longer available")
		}
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "item": item})
}

type removeRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// Remove soft-deletes an available item the caller owns. The row survives
// so trades and messages that reference it keep their history; the uploaded
// images are destroyed best effort.
func (s *ItemService) Remove(c fiber.Ctx) error {
	var req removeRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid item id")
	}

	item, err := s.items.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return apperr.Internal(err)
	}
	if item.OwnerID != middleware.UserID(c) {
		return apperr.Forbidden("only the owner may remove an item")
	}

	if err := s.items.SetStatus(c.Context(), id, models.ItemAvailable, models.ItemRemoved); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apperr.NotFound("item not found")
		case errors.Is(err, store.ErrConflict):
			return apperr.Conflict("item is no longer available")
		}
		return apperr.Internal(err)
	}

	if len(item.ImageURLs) > 0 {
		s.images.DestroyImages(c.Context(), item.ImageURLs)
	}

	return c.JSON(fiber.Map{"success": true})
}

type myItemsRequest struct {
	IncludeRemoved bool `json:"include_removed"`
}

// MyItems returns the caller's own items, newest first.
func (s *ItemService) MyItems(c fiber.Ctx) error {
	var req myItemsRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	items, err := s.items.ListByOwner(c.Context(), middleware.UserID(c), req.IncludeRemoved)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "items": items, "count": len(items)})
}
