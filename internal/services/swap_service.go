package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

// Swap role filters for list queries.
const (
	RoleRequester = "requester"
	RoleOwner     = "owner"
)

var (
	// ErrSwapNotFound also covers non-participant access, so a caller
	// cannot probe for the existence of other members' swaps.
	ErrSwapNotFound = errors.New("swap not found")

	ErrSelfSwap             = errors.New("requester and owner must be different users")
	ErrSwapUserMissing      = errors.New("swap participant does not exist")
	ErrSwapListingMissing   = errors.New("referenced listing does not exist or is not active")
	ErrListingOwnerMismatch = errors.New("listing is not owned by the stated participant")
	ErrInvalidSwapStatus    = errors.New("unrecognized swap status")
	ErrInvalidSwapRole      = errors.New("unrecognized swap role filter")
)

type SwapService struct {
	swaps    store.SwapStore
	listings store.ListingStore
	users    store.UserStore
	messages *MessageService
}

func NewSwapService(swaps store.SwapStore, listings store.ListingStore, users store.UserStore, messages *MessageService) *SwapService {
	return &SwapService{swaps: swaps, listings: listings, users: users, messages: messages}
}

// Create proposes an exchange: the requester offers their listing for the
// owner's listing. Every precondition failure is reported without writing
// anything; no messages are emitted on creation.
func (s *SwapService) Create(requesterID string, req *dto.CreateSwapRequest) (*models.Swap, error) {
	if requesterID == req.OwnerID {
		return nil, ErrSelfSwap
	}
	for _, userID := range []string{requesterID, req.OwnerID} {
		if _, err := s.users.GetUser(userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrSwapUserMissing
			}
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
	}
	if err := s.checkListing(req.RequesterListingID, requesterID); err != nil {
		return nil, err
	}
	if err := s.checkListing(req.OwnerListingID, req.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	swap := &models.Swap{
		ID:                 uuid.New(),
		RequesterID:        requesterID,
		OwnerID:            req.OwnerID,
		RequesterListingID: req.RequesterListingID,
		OwnerListingID:     req.OwnerListingID,
		Status:             models.SwapStatusPending,
		Message:            req.Message,
		MeetupDetails:      datatypes.JSONMap(req.MeetupDetails),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.swaps.CreateSwap(swap); err != nil {
		return nil, fmt.Errorf("failed to create swap: %w", err)
	}
	return swap, nil
}

func (s *SwapService) checkListing(listingID uuid.UUID, ownerID string) error {
	listing, err := s.listings.GetListing(listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSwapListingMissing
		}
		return fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.Status != models.ListingStatusActive {
		return ErrSwapListingMissing
	}
	if listing.UserID != ownerID {
		return ErrListingOwnerMismatch
	}
	return nil
}

// Get returns a swap visible to one of its participants.
func (s *SwapService) Get(swapID uuid.UUID, userID string) (*dto.SwapView, error) {
	swap, err := s.participantSwap(swapID, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(*swap), nil
}

// Transition mutates a swap on behalf of a participant. A status change
// notifies both participants with a system message; other mutations are
// silent. Moving back to pending emits nothing.
func (s *SwapService) Transition(swapID uuid.UUID, actorID string, req *dto.UpdateSwapRequest) (*dto.SwapView, error) {
	swap, err := s.participantSwap(swapID, actorID)
	if err != nil {
		return nil, err
	}

	previous := swap.Status
	if req.Status != nil {
		if !models.ValidSwapStatus(*req.Status) {
			return nil, ErrInvalidSwapStatus
		}
		swap.Status = *req.Status
	}
	if req.Message != nil {
		swap.Message = *req.Message
	}
	if req.MeetupDetails != nil {
		swap.MeetupDetails = datatypes.JSONMap(req.MeetupDetails)
	}

	now := time.Now().UTC()
	swap.UpdatedAt = now
	if swap.Status == models.SwapStatusCompleted && previous != models.SwapStatusCompleted {
		swap.CompletedAt = &now
	}

	if err := s.swaps.SaveSwap(swap); err != nil {
		return nil, fmt.Errorf("failed to update swap: %w", err)
	}

	view := &dto.SwapView{Swap: *swap}
	if swap.Status != previous {
		s.notifyStatusChange(swap, previous, actorID, now)
		ref, err := s.messages.Reference(swap.ID)
		if err != nil {
			return nil, err
		}
		view.MessageReference = ref
	}
	return view, nil
}

// notifyStatusChange emits one system message per participant for the
// transition. Notification failures do not roll back the persisted update.
func (s *SwapService) notifyStatusChange(swap *models.Swap, previous, actorID string, at time.Time) {
	var eventType, content string
	switch swap.Status {
	case models.SwapStatusAccepted:
		eventType = models.EventSwapAccepted
		content = "Swap request has been accepted! You can now coordinate the meetup details."
	case models.SwapStatusRejected:
		eventType = models.EventSwapRejected
		content = "Swap request has been rejected."
	case models.SwapStatusCompleted:
		eventType = models.EventSwapCompleted
		content = "Swap has been marked as completed! Thank you for using our platform."
	case models.SwapStatusCancelled:
		eventType = models.EventSwapCancelled
		content = "Swap has been cancelled."
	default:
		return
	}

	metadata := map[string]interface{}{
		"previous_status": previous,
		"new_status":      swap.Status,
		"actor_id":        actorID,
		"timestamp":       at.Format(time.RFC3339),
	}
	recipients := []string{swap.RequesterID, swap.OwnerID}
	if _, err := s.messages.PostSystemMessage(swap.ID, eventType, content, recipients, metadata); err != nil {
		slog.Error("failed to emit swap status notification",
			"swap_id", swap.ID, "event", eventType, "error", err)
	}
}

// Delete removes a swap. Only the requester may delete, and only while the
// swap is still pending; every failure reads as not-found. Both
// participants are notified before the record disappears.
func (s *SwapService) Delete(swapID uuid.UUID, actorID string) error {
	swap, err := s.participantSwap(swapID, actorID)
	if err != nil {
		return err
	}
	if swap.RequesterID != actorID || swap.Status != models.SwapStatusPending {
		return ErrSwapNotFound
	}

	metadata := map[string]interface{}{
		"previous_status": swap.Status,
		"actor_id":        actorID,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	recipients := []string{swap.RequesterID, swap.OwnerID}
	if _, err := s.messages.PostSystemMessage(swap.ID, models.EventSwapCancelled,
		"Swap request has been deleted by the requester.", recipients, metadata); err != nil {
		return err
	}

	if err := s.swaps.DeleteSwap(swapID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSwapNotFound
		}
		return fmt.Errorf("failed to delete swap: %w", err)
	}
	return nil
}

// ListByUser returns the user's swaps, optionally restricted to one role
// and post-filtered by status, newest first.
func (s *SwapService) ListByUser(userID, role, status string) ([]dto.SwapView, error) {
	if status != "" && !models.ValidSwapStatus(status) {
		return nil, ErrInvalidSwapStatus
	}

	var swaps []models.Swap
	var err error
	switch role {
	case RoleRequester:
		swaps, err = s.swaps.SwapsByRequester(userID)
	case RoleOwner:
		swaps, err = s.swaps.SwapsByOwner(userID)
	case "":
		swaps, err = s.swapsForParticipant(userID)
	default:
		return nil, ErrInvalidSwapRole
	}
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := swaps[:0]
		for _, sw := range swaps {
			if sw.Status == status {
				filtered = append(filtered, sw)
			}
		}
		swaps = filtered
	}
	return s.enrichAll(swaps), nil
}

// swapsForParticipant unions both roles, de-duplicated, newest first.
func (s *SwapService) swapsForParticipant(userID string) ([]models.Swap, error) {
	asRequester, err := s.swaps.SwapsByRequester(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	asOwner, err := s.swaps.SwapsByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(asRequester)+len(asOwner))
	merged := make([]models.Swap, 0, len(asRequester)+len(asOwner))
	for _, sw := range append(asRequester, asOwner...) {
		if !seen[sw.ID] {
			seen[sw.ID] = true
			merged = append(merged, sw)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// ListByListing returns every swap where the listing sits on either side.
func (s *SwapService) ListByListing(listingID uuid.UUID) ([]dto.SwapView, error) {
	swaps, err := s.swaps.SwapsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	return s.enrichAll(swaps), nil
}

// PendingForOwner is the action queue: pending swaps waiting on the user's
// response as owner.
func (s *SwapService) PendingForOwner(userID string) ([]dto.SwapView, error) {
	swaps, err := s.swaps.SwapsByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	pending := swaps[:0]
	for _, sw := range swaps {
		if sw.Status == models.SwapStatusPending {
			pending = append(pending, sw)
		}
	}
	return s.enrichAll(pending), nil
}

// History buckets the user's swaps by status and derives their completion
// rate, defined as zero when they have no swaps at all.
func (s *SwapService) History(userID string) (*dto.SwapHistory, error) {
	swaps, err := s.swapsForParticipant(userID)
	if err != nil {
		return nil, err
	}

	history := &dto.SwapHistory{
		ByStatus:   make(map[string][]models.Swap, len(models.SwapStatuses)),
		TotalSwaps: len(swaps),
	}
	for _, status := range models.SwapStatuses {
		history.ByStatus[status] = []models.Swap{}
	}
	for _, sw := range swaps {
		history.ByStatus[sw.Status] = append(history.ByStatus[sw.Status], sw)
		if sw.Status == models.SwapStatusCompleted {
			history.CompletedSwaps++
		}
	}
	if history.TotalSwaps > 0 {
		history.CompletionRate = float64(history.CompletedSwaps) / float64(history.TotalSwaps)
	}
	return history, nil
}

// VerifyParticipant loads a swap only when userID participates in it. The
// messaging endpoints gate on this before touching a conversation.
func (s *SwapService) VerifyParticipant(swapID uuid.UUID, userID string) (*models.Swap, error) {
	return s.participantSwap(swapID, userID)
}

func (s *SwapService) participantSwap(swapID uuid.UUID, userID string) (*models.Swap, error) {
	swap, err := s.swaps.GetSwap(swapID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to load swap: %w", err)
	}
	if !swap.HasParticipant(userID) {
		return nil, ErrSwapNotFound
	}
	return swap, nil
}

func (s *SwapService) enrich(swap models.Swap) *dto.SwapView {
	view := &dto.SwapView{Swap: swap}
	if ref, err := s.messages.Reference(swap.ID); err == nil {
		view.MessageReference = ref
	} else {
		slog.Error("failed to summarize swap messages", "swap_id", swap.ID, "error", err)
	}
	return view
}

func (s *SwapService) enrichAll(swaps []models.Swap) []dto.SwapView {
	views := make([]dto.SwapView, 0, len(swaps))
	for _, sw := range swaps {
		views = append(views, *s.enrich(sw))
	}
	return views
}
