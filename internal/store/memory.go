package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/swapcircle/swapcircle-api/internal/models"
)

// Memory implements every store interface in process memory. It exists for
// tests and mirrors the ordering guarantees of the Gorm implementation.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	listings map[uuid.UUID]models.Listing
	swaps    map[uuid.UUID]models.Swap
	messages map[uuid.UUID]models.Message
	reports  map[uuid.UUID]models.Report
	blocks   map[uuid.UUID]models.Block
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]models.User),
		listings: make(map[uuid.UUID]models.Listing),
		swaps:    make(map[uuid.UUID]models.Swap),
		messages: make(map[uuid.UUID]models.Message),
		reports:  make(map[uuid.UUID]models.Report),
		blocks:   make(map[uuid.UUID]models.Block),
	}
}

// --- users ---

func (m *Memory) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) SaveUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

// --- listings ---

func (m *Memory) CreateListing(l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = *l
	return nil
}

func (m *Memory) GetListing(id uuid.UUID) (*models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *Memory) SaveListing(l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = *l
	return nil
}

func (m *Memory) DeleteListing(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m *Memory) ListingsByUser(userID string) ([]models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sortListingsNewestFirst(out)
	return out, nil
}

func (m *Memory) ListingsByZip(zip, category, size string) ([]models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.ZipCode != zip {
			continue
		}
		if category != "" && l.Category != category {
			continue
		}
		if size != "" && l.Size != size {
			continue
		}
		out = append(out, l)
	}
	sortListingsNewestFirst(out)
	return out, nil
}

func (m *Memory) ActiveListings() ([]models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.Status == models.ListingStatusActive {
			out = append(out, l)
		}
	}
	sortListingsNewestFirst(out)
	return out, nil
}

// --- swaps ---

func (m *Memory) CreateSwap(s *models.Swap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps[s.ID] = *s
	return nil
}

func (m *Memory) GetSwap(id uuid.UUID) (*models.Swap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.swaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) SaveSwap(s *models.Swap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps[s.ID] = *s
	return nil
}

func (m *Memory) DeleteSwap(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.swaps[id]; !ok {
		return ErrNotFound
	}
	delete(m.swaps, id)
	return nil
}

func (m *Memory) SwapsByRequester(userID string) ([]models.Swap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Swap
	for _, s := range m.swaps {
		if s.RequesterID == userID {
			out = append(out, s)
		}
	}
	sortSwapsNewestFirst(out)
	return out, nil
}

func (m *Memory) SwapsByOwner(userID string) ([]models.Swap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Swap
	for _, s := range m.swaps {
		if s.OwnerID == userID {
			out = append(out, s)
		}
	}
	sortSwapsNewestFirst(out)
	return out, nil
}

func (m *Memory) SwapsByListing(listingID uuid.UUID) ([]models.Swap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Swap
	for _, s := range m.swaps {
		if s.RequesterListingID == listingID || s.OwnerListingID == listingID {
			out = append(out, s)
		}
	}
	sortSwapsNewestFirst(out)
	return out, nil
}

// --- messages ---

func (m *Memory) CreateMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = *msg
	return nil
}

func (m *Memory) GetMessage(swapID, messageID uuid.UUID) (*models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[messageID]
	if !ok || msg.SwapID != swapID {
		return nil, ErrNotFound
	}
	return &msg, nil
}

func (m *Memory) SaveMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = *msg
	return nil
}

func (m *Memory) DeleteMessage(swapID, messageID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok || msg.SwapID != swapID {
		return ErrNotFound
	}
	delete(m.messages, messageID)
	return nil
}

func (m *Memory) MessagesBySwap(swapID uuid.UUID) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.SwapID == swapID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (m *Memory) UnreadByRecipient(userID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.RecipientID == userID && !msg.IsRead {
			out = append(out, msg)
		}
	}
	return out, nil
}

// --- moderation ---

func (m *Memory) CreateReport(r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = *r
	return nil
}

func (m *Memory) CreateBlock(b *models.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[b.ID] = *b
	return nil
}

func (m *Memory) DeleteBlock(id uuid.UUID, blockerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blocks[id]
	if !ok || b.BlockerID != blockerID {
		return ErrNotFound
	}
	delete(m.blocks, id)
	return nil
}

func (m *Memory) BlockExists(blockerID, blockedID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return true, nil
		}
	}
	return false, nil
}

func sortListingsNewestFirst(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

func sortSwapsNewestFirst(swaps []models.Swap) {
	sort.SliceStable(swaps, func(i, j int) bool {
		return swaps[i].CreatedAt.After(swaps[j].CreatedAt)
	})
}
