// Package store is the persistence boundary. Services depend on the
// interfaces here, never on a concrete database handle, so tests run
// against the in-memory implementation.
package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/swapcircle/swapcircle-api/internal/models"
)

// ErrNotFound is returned by every Get/Delete when no record matches.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	CreateUser(u *models.User) error
	GetUser(id string) (*models.User, error)
	SaveUser(u *models.User) error
}

type ListingStore interface {
	CreateListing(l *models.Listing) error
	GetListing(id uuid.UUID) (*models.Listing, error)
	SaveListing(l *models.Listing) error
	DeleteListing(id uuid.UUID) error

	// ListingsByUser returns the owner's listings, newest first.
	ListingsByUser(userID string) ([]models.Listing, error)
	// ListingsByZip filters by zip code with optional category/size
	// filters (empty string means no filter), newest first.
	ListingsByZip(zip, category, size string) ([]models.Listing, error)
	// ActiveListings returns every active listing.
	ActiveListings() ([]models.Listing, error)
}

type SwapStore interface {
	CreateSwap(s *models.Swap) error
	GetSwap(id uuid.UUID) (*models.Swap, error)
	SaveSwap(s *models.Swap) error
	DeleteSwap(id uuid.UUID) error

	// SwapsByRequester and SwapsByOwner return swaps for one side of the
	// exchange, newest first.
	SwapsByRequester(userID string) ([]models.Swap, error)
	SwapsByOwner(userID string) ([]models.Swap, error)
	// SwapsByListing returns swaps where the listing is on either side.
	SwapsByListing(listingID uuid.UUID) ([]models.Swap, error)
}

type MessageStore interface {
	CreateMessage(m *models.Message) error
	// GetMessage addresses a message by its swap and message identifiers.
	GetMessage(swapID, messageID uuid.UUID) (*models.Message, error)
	SaveMessage(m *models.Message) error
	DeleteMessage(swapID, messageID uuid.UUID) error

	// MessagesBySwap returns the full conversation, oldest first. The
	// ordering is a hard contract: it drives conversation rendering.
	MessagesBySwap(swapID uuid.UUID) ([]models.Message, error)
	// UnreadByRecipient returns unread messages addressed to the user.
	UnreadByRecipient(userID string) ([]models.Message, error)
}

type ModerationStore interface {
	CreateReport(r *models.Report) error
	CreateBlock(b *models.Block) error
	DeleteBlock(id uuid.UUID, blockerID string) error
	BlockExists(blockerID, blockedID string) (bool, error)
}
