package dto

import (
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/models"
)

type CreateSwapRequest struct {
	OwnerID            string                 `json:"owner_id" validate:"required,max=128"`
	OwnerListingID     uuid.UUID              `json:"owner_listing_id" validate:"required"`
	RequesterListingID uuid.UUID              `json:"requester_listing_id" validate:"required"`
	Message            string                 `json:"message" validate:"max=2000"`
	MeetupDetails      map[string]interface{} `json:"meetup_details"`
}

// UpdateSwapRequest mutates a swap. Any combination of fields may be set;
// a status change triggers lifecycle notifications.
type UpdateSwapRequest struct {
	Status        *string                `json:"status"`
	Message       *string                `json:"message" validate:"omitempty,max=2000"`
	MeetupDetails map[string]interface{} `json:"meetup_details"`
}

// SwapView is a swap enriched with its conversation summary.
type SwapView struct {
	models.Swap
	MessageReference *models.MessageReference `json:"message_reference,omitempty"`
}

// SwapHistory buckets a user's swaps by status and derives a completion
// rate over everything they ever participated in.
type SwapHistory struct {
	ByStatus       map[string][]models.Swap `json:"swaps_by_status"`
	TotalSwaps     int                      `json:"total_swaps"`
	CompletedSwaps int                      `json:"completed_swaps"`
	CompletionRate float64                  `json:"completion_rate"`
}
