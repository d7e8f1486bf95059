package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemCategory classifies what an item is.
type ItemCategory string

const (
	CategoryTextbooks      ItemCategory = "TEXTBOOKS"
	CategoryElectronics    ItemCategory = "ELECTRONICS"
	CategoryFurniture      ItemCategory = "FURNITURE"
	CategoryClothing       ItemCategory = "CLOTHING"
	CategorySchoolSupplies ItemCategory = "SCHOOL_SUPPLIES"
	CategoryDormEssentials ItemCategory = "DORM_ESSENTIALS"
	CategorySports         ItemCategory = "SPORTS"
	CategoryTickets        ItemCategory = "TICKETS"
	CategoryOther          ItemCategory = "OTHER"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryTextbooks, CategoryElectronics, CategoryFurniture,
		CategoryClothing, CategorySchoolSupplies, CategoryDormEssentials,
		CategorySports, CategoryTickets, CategoryOther:
		return true
	}
	return false
}

// ItemCondition grades an item's wear.
type ItemCondition string

const (
	ConditionNew     ItemCondition = "NEW"
	ConditionLikeNew ItemCondition = "LIKE_NEW"
	ConditionGood    ItemCondition = "GOOD"
	ConditionFair    ItemCondition = "FAIR"
	ConditionPoor    ItemCondition = "POOR"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ItemStatus is driven by the trade lifecycle. AVAILABLE items can enter
// trades; PENDING_TRADE marks reservation by an accepted trade; TRADED and
// REMOVED are terminal (REMOVED is the soft delete that preserves
// referential history).
type ItemStatus string

const (
	ItemAvailable    ItemStatus = "AVAILABLE"
	ItemPendingTrade ItemStatus = "PENDING_TRADE"
	ItemTraded       ItemStatus = "TRADED"
	ItemRemoved      ItemStatus = "REMOVED"
)

// Item is a listed good owned by a user.
type Item struct {
	ID             uuid.UUID     `json:"id"`
	OwnerID        uuid.UUID     `json:"owner_id"`
	UniversityID   uuid.UUID     `json:"university_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       ItemCategory  `json:"category"`
	Condition      ItemCondition `json:"condition"`
	ImageURLs      []string      `json:"image_urls"`
	EstimatedValue *float64      `json:"estimated_value,omitempty"`
	CampusLocation *string       `json:"campus_location,omitempty"`
	LookingFor     *string       `json:"looking_for,omitempty"`
	OpenToOffers   bool          `json:"open_to_offers"`
	Status         ItemStatus    `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ItemUpdate carries the owner-editable fields. Nil means "leave unchanged".
type ItemUpdate struct {
	Title          *string
	Description    *string
	Category       *ItemCategory
	Condition      *ItemCondition
	ImageURLs      []string
	EstimatedValue *float64
	CampusLocation *string
	LookingFor     *string
	OpenToOffers   *bool
}

// ItemFilter narrows public browsing.
type ItemFilter struct {
	UniversityID *uuid.UUID
	Category     *ItemCategory
	Condition    *ItemCondition
	Limit        int
	Offset       int
}
