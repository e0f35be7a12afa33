package models

import (
	"time"

	"gorm.io/datatypes"
)

// Address is the postal address block stored on a user profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is a marketplace member. The primary key is the subject claim issued
// by the external identity provider, so no credentials are stored here.
// Users are never hard-deleted; deactivation flips IsActive.
type User struct {
	ID              string                      `gorm:"primaryKey;size:128" json:"user_id"`
	Email           string                      `gorm:"size:255;not null;index" json:"email"`
	FirstName       string                      `gorm:"size:100" json:"first_name"`
	LastName        string                      `gorm:"size:100" json:"last_name"`
	Phone           string                      `gorm:"size:30" json:"phone"`
	Address         datatypes.JSONType[Address] `gorm:"type:jsonb" json:"address"`
	ProfileImageURL string                      `gorm:"type:text" json:"profile_image_url"`
	IsActive        bool                        `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// PublicProfile is the redacted view of a user exposed to other members.
type PublicProfile struct {
	UserID          string        `json:"user_id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	ProfileImageURL string        `json:"profile_image_url"`
	Location        PublicAddress `json:"location"`
}

// PublicAddress is the subset of an address safe to show other members.
type PublicAddress struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Public derives the redacted profile view.
func (u *User) Public() *PublicProfile {
	addr := u.Address.Data()
	return &PublicProfile{
		UserID:          u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		Location:        PublicAddress{City: addr.City, State: addr.State},
	}
}
