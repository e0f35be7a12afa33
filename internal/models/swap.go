package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Swap statuses. A swap starts pending. Rejected, completed and cancelled
// are conventionally terminal, but participants may still move a swap out
// of them.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCompleted = "completed"
	SwapStatusCancelled = "cancelled"
)

// SwapStatuses is the closed set of valid swap statuses.
var SwapStatuses = []string{
	SwapStatusPending,
	SwapStatusAccepted,
	SwapStatusRejected,
	SwapStatusCompleted,
	SwapStatusCancelled,
}

// Swap is a proposed exchange of two listings between two users. The
// requester offers RequesterListing and wants OwnerListing from the owner.
type Swap struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"swap_id"`
	RequesterID        string             `gorm:"size:128;not null;index" json:"requester_id"`
	OwnerID            string             `gorm:"size:128;not null;index" json:"owner_id"`
	RequesterListingID uuid.UUID          `gorm:"type:uuid;not null;index" json:"requester_listing_id"`
	OwnerListingID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"owner_listing_id"`
	Status             string             `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Message            string             `gorm:"type:text" json:"message"`
	MeetupDetails      datatypes.JSONMap  `gorm:"type:jsonb" json:"meetup_details"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
}

// HasParticipant reports whether userID is the requester or the owner.
func (s *Swap) HasParticipant(userID string) bool {
	return s.RequesterID == userID || s.OwnerID == userID
}

// OtherParticipant returns the counterpart of userID in the swap, or ""
// when userID is not a participant.
func (s *Swap) OtherParticipant(userID string) string {
	switch userID {
	case s.RequesterID:
		return s.OwnerID
	case s.OwnerID:
		return s.RequesterID
	}
	return ""
}

// ValidSwapStatus reports whether s is one of the recognized statuses.
func ValidSwapStatus(s string) bool {
	for _, v := range SwapStatuses {
		if v == s {
			return true
		}
	}
	return false
}
