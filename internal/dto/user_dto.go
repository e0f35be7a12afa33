package dto

import "github.com/swapcircle/swapcircle-api/internal/models"

// SignupRequest completes a profile for a freshly verified identity. Email
// and the user identifier come from the token claims, never the body.
type SignupRequest struct {
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Phone     string          `json:"phone" validate:"omitempty,max=30"`
	Address   *models.Address `json:"address"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName       *string         `json:"first_name" validate:"omitempty,max=100"`
	LastName        *string         `json:"last_name" validate:"omitempty,max=100"`
	Phone           *string         `json:"phone" validate:"omitempty,max=30"`
	Address         *models.Address `json:"address"`
	ProfileImageURL *string         `json:"profile_image_url" validate:"omitempty,url"`
}
