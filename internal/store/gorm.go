package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"gorm.io/gorm"
)

// Gorm backs every store interface with PostgreSQL.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// --- users ---

func (g *Gorm) CreateUser(u *models.User) error {
	if err := g.db.Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (g *Gorm) GetUser(id string) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) SaveUser(u *models.User) error {
	if err := g.db.Save(u).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// --- listings ---

func (g *Gorm) CreateListing(l *models.Listing) error {
	if err := g.db.Create(l).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (g *Gorm) GetListing(id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	if err := g.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (g *Gorm) SaveListing(l *models.Listing) error {
	if err := g.db.Save(l).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

func (g *Gorm) DeleteListing(id uuid.UUID) error {
	res := g.db.Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ListingsByUser(userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := g.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by user: %w", err)
	}
	return listings, nil
}

func (g *Gorm) ListingsByZip(zip, category, size string) ([]models.Listing, error) {
	q := g.db.Where("zip_code = ?", zip)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if size != "" {
		q = q.Where("size = ?", size)
	}
	var listings []models.Listing
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings by zip: %w", err)
	}
	return listings, nil
}

func (g *Gorm) ActiveListings() ([]models.Listing, error) {
	var listings []models.Listing
	err := g.db.Where("status = ?", models.ListingStatusActive).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active listings: %w", err)
	}
	return listings, nil
}

// --- swaps ---

func (g *Gorm) CreateSwap(s *models.Swap) error {
	if err := g.db.Create(s).Error; err != nil {
		return fmt.Errorf("failed to create swap: %w", err)
	}
	return nil
}

func (g *Gorm) GetSwap(id uuid.UUID) (*models.Swap, error) {
	var s models.Swap
	if err := g.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *Gorm) SaveSwap(s *models.Swap) error {
	if err := g.db.Save(s).Error; err != nil {
		return fmt.Errorf("failed to save swap: %w", err)
	}
	return nil
}

func (g *Gorm) DeleteSwap(id uuid.UUID) error {
	res := g.db.Delete(&models.Swap{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete swap: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) SwapsByRequester(userID string) ([]models.Swap, error) {
	var swaps []models.Swap
	err := g.db.Where("requester_id = ?", userID).
		Order("created_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query swaps by requester: %w", err)
	}
	return swaps, nil
}

func (g *Gorm) SwapsByOwner(userID string) ([]models.Swap, error) {
	var swaps []models.Swap
	err := g.db.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query swaps by owner: %w", err)
	}
	return swaps, nil
}

func (g *Gorm) SwapsByListing(listingID uuid.UUID) ([]models.Swap, error) {
	var swaps []models.Swap
	err := g.db.Where("requester_listing_id = ? OR owner_listing_id = ?", listingID, listingID).
		Order("created_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query swaps by listing: %w", err)
	}
	return swaps, nil
}

// --- messages ---

func (g *Gorm) CreateMessage(m *models.Message) error {
	if err := g.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (g *Gorm) GetMessage(swapID, messageID uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := g.db.Where("id = ? AND swap_id = ?", messageID, swapID).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (g *Gorm) SaveMessage(m *models.Message) error {
	if err := g.db.Save(m).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

func (g *Gorm) DeleteMessage(swapID, messageID uuid.UUID) error {
	res := g.db.Where("id = ? AND swap_id = ?", messageID, swapID).Delete(&models.Message{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) MessagesBySwap(swapID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := g.db.Where("swap_id = ?", swapID).
		Order("sent_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query messages by swap: %w", err)
	}
	return msgs, nil
}

func (g *Gorm) UnreadByRecipient(userID string) ([]models.Message, error) {
	var msgs []models.Message
	err := g.db.Where("recipient_id = ? AND is_read = false", userID).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query unread messages: %w", err)
	}
	return msgs, nil
}

// --- moderation ---

func (g *Gorm) CreateReport(r *models.Report) error {
	if err := g.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (g *Gorm) CreateBlock(b *models.Block) error {
	if err := g.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (g *Gorm) DeleteBlock(id uuid.UUID, blockerID string) error {
	res := g.db.Where("id = ? AND blocker_id = ?", id, blockerID).Delete(&models.Block{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete block: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) BlockExists(blockerID, blockedID string) (bool, error) {
	var count int64
	err := g.db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return count > 0, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
