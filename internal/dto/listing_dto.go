package dto

import "github.com/swapcircle/swapcircle-api/internal/models"

type CreateListingRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=5000"`
	Category    string            `json:"category" validate:"omitempty,max=50"`
	Size        string            `json:"size" validate:"omitempty,max=30"`
	Condition   string            `json:"condition" validate:"omitempty,max=50"`
	Images      []models.ImageRef `json:"images" validate:"max=10"`
	ZipCode     string            `json:"zip_code" validate:"omitempty,max=16"`
	Address     string            `json:"address" validate:"omitempty,max=300"`
	Tags        []string          `json:"tags" validate:"max=20,dive,max=50"`
	Status      string            `json:"status" validate:"omitempty,oneof=active pending swapped hidden"`
}

// UpdateListingRequest is a partial update; nil fields are left untouched.
type UpdateListingRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	Category    *string           `json:"category" validate:"omitempty,max=50"`
	Size        *string           `json:"size" validate:"omitempty,max=30"`
	Condition   *string           `json:"condition" validate:"omitempty,max=50"`
	Images      []models.ImageRef `json:"images" validate:"omitempty,max=10"`
	ZipCode     *string           `json:"zip_code" validate:"omitempty,max=16"`
	Address     *string           `json:"address" validate:"omitempty,max=300"`
	Tags        []string          `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Status      *string           `json:"status" validate:"omitempty,oneof=active pending swapped hidden"`
}

// SearchResult is a listing annotated with its distance from the search
// origin, in miles.
type SearchResult struct {
	models.Listing
	DistanceMiles float64 `json:"distance_miles"`
}

// DeleteListingResponse reports the outcome of best-effort image cleanup
// performed while deleting a listing.
type DeleteListingResponse struct {
	Deleted       bool     `json:"deleted"`
	ImagesDeleted []string `json:"images_deleted"`
	ImagesFailed  []string `json:"images_failed"`
}
