package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Listing statuses. A listing is discoverable and swappable only while active.
const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusSwapped = "swapped"
	ListingStatusHidden  = "hidden"
)

// ListingStatuses is the closed set of valid listing statuses.
var ListingStatuses = []string{
	ListingStatusActive,
	ListingStatusPending,
	ListingStatusSwapped,
	ListingStatusHidden,
}

// ImageRef points at an object-storage asset attached to a listing.
type ImageRef struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Location is the geocoded position of a listing. Nil when geocoding was
// skipped or failed; listings without a location are excluded from
// distance search.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
}

// Listing is an item offered for swapping.
type Listing struct {
	ID          uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"listing_id"`
	UserID      string                        `gorm:"size:128;not null;index" json:"user_id"`
	Title       string                        `gorm:"size:200;not null" json:"title"`
	Description string                        `gorm:"type:text" json:"description"`
	Category    string                        `gorm:"size:50;index" json:"category"`
	Size        string                        `gorm:"size:30" json:"size"`
	Condition   string                        `gorm:"size:50" json:"condition"`
	Images      datatypes.JSONSlice[ImageRef] `gorm:"type:jsonb" json:"images"`
	ZipCode     string                        `gorm:"size:16;index" json:"zip_code"`
	Location    datatypes.JSONType[*Location] `gorm:"type:jsonb" json:"location"`
	Tags        datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"tags"`
	Status      string                        `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// ValidListingStatus reports whether s is one of the recognized statuses.
func ValidListingStatus(s string) bool {
	for _, v := range ListingStatuses {
		if v == s {
			return true
		}
	}
	return false
}
