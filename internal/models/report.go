package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportReason categorizes an abuse report.
type ReportReason string

const (
	ReasonSpam           ReportReason = "SPAM"
	ReasonScam           ReportReason = "SCAM"
	ReasonProhibitedItem ReportReason = "PROHIBITED_ITEM"
	ReasonHarassment     ReportReason = "HARASSMENT"
	ReasonInappropriate  ReportReason = "INAPPROPRIATE"
	ReasonOtherViolation ReportReason = "OTHER"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonSpam, ReasonScam, ReasonProhibitedItem,
		ReasonHarassment, ReasonInappropriate, ReasonOtherViolation:
		return true
	}
	return false
}

// ReportStatus tracks moderation progress.
type ReportStatus string

const (
	ReportPending       ReportStatus = "PENDING"
	ReportInvestigating ReportStatus = "INVESTIGATING"
	ReportResolved      ReportStatus = "RESOLVED"
	ReportDismissed     ReportStatus = "DISMISSED"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportInvestigating, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Report flags abusive behavior, optionally pointing at a specific item.
// Reports are append-only for users; moderators move them through
// INVESTIGATING to RESOLVED or DISMISSED via the admin CLI.
type Report struct {
	ID             uuid.UUID    `json:"id"`
	ReporterID     uuid.UUID    `json:"reporter_id"`
	ItemID         *uuid.UUID   `json:"item_id,omitempty"`
	Reason         ReportReason `json:"reason"`
	Description    *string      `json:"description,omitempty"`
	Status         ReportStatus `json:"status"`
	ResolutionNote *string      `json:"resolution_note,omitempty"`
	ResolvedBy     *string      `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
