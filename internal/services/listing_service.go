package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/geo"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrNotListingOwner      = errors.New("listing belongs to another user")
	ErrListingOwnerUnknown  = errors.New("listing owner does not exist")
	ErrInvalidListingStatus = errors.New("unrecognized listing status")
	ErrSearchOriginUnknown  = errors.New("search location could not be resolved")
)

// Geocoder resolves free-form addresses and zip codes to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Result, error)
	ZipCoordinates(ctx context.Context, zipCode string) (*geo.Result, error)
}

// ImageCleaner removes stored listing images by key.
type ImageCleaner interface {
	Delete(ctx context.Context, key string) error
}

type ListingService struct {
	listings      store.ListingStore
	users         store.UserStore
	geocoder      Geocoder
	images        ImageCleaner
	defaultRadius float64
}

func NewListingService(listings store.ListingStore, users store.UserStore, geocoder Geocoder, images ImageCleaner, defaultRadiusMiles float64) *ListingService {
	return &ListingService{
		listings:      listings,
		users:         users,
		geocoder:      geocoder,
		images:        images,
		defaultRadius: defaultRadiusMiles,
	}
}

// Create stores a new listing for userID. Geocoding is best-effort: a
// listing without coordinates is still created, it just stays out of
// distance search.
func (s *ListingService) Create(ctx context.Context, userID string, req *dto.CreateListingRequest) (*models.Listing, error) {
	if _, err := s.users.GetUser(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingOwnerUnknown
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.ListingStatusActive
	}
	if !models.ValidListingStatus(status) {
		return nil, ErrInvalidListingStatus
	}

	listing := &models.Listing{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Images:      datatypes.NewJSONSlice(req.Images),
		ZipCode:     req.ZipCode,
		Tags:        datatypes.NewJSONSlice(req.Tags),
		Status:      status,
	}
	listing.Location = datatypes.NewJSONType(s.resolveLocation(ctx, req.Address, req.ZipCode))

	if err := s.listings.CreateListing(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// resolveLocation geocodes the address when present, falling back to the
// zip code. Returns nil when nothing resolves.
func (s *ListingService) resolveLocation(ctx context.Context, address, zipCode string) *models.Location {
	var result *geo.Result
	var err error
	switch {
	case address != "":
		result, err = s.geocoder.Geocode(ctx, address)
	case zipCode != "":
		result, err = s.geocoder.ZipCoordinates(ctx, zipCode)
	default:
		return nil
	}
	if err != nil {
		slog.Warn("listing geocoding failed", "error", err)
		return nil
	}
	if result == nil {
		return nil
	}
	return &models.Location{
		Lat:              result.Lat,
		Lng:              result.Lng,
		FormattedAddress: result.FormattedAddress,
	}
}

func (s *ListingService) Get(id uuid.UUID) (*models.Listing, error) {
	listing, err := s.listings.GetListing(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return listing, nil
}

// Update merges the supplied fields into the listing. Only the owner may
// update; a location-bearing field change triggers re-geocoding.
func (s *ListingService) Update(ctx context.Context, id uuid.UUID, userID string, req *dto.UpdateListingRequest) (*models.Listing, error) {
	listing, err := s.ownedListing(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.Size != nil {
		listing.Size = *req.Size
	}
	if req.Condition != nil {
		listing.Condition = *req.Condition
	}
	if req.Images != nil {
		listing.Images = datatypes.NewJSONSlice(req.Images)
	}
	if req.Tags != nil {
		listing.Tags = datatypes.NewJSONSlice(req.Tags)
	}
	if req.Status != nil {
		if !models.ValidListingStatus(*req.Status) {
			return nil, ErrInvalidListingStatus
		}
		listing.Status = *req.Status
	}

	if req.Address != nil || req.ZipCode != nil {
		if req.ZipCode != nil {
			listing.ZipCode = *req.ZipCode
		}
		var address string
		if req.Address != nil {
			address = *req.Address
		}
		listing.Location = datatypes.NewJSONType(s.resolveLocation(ctx, address, listing.ZipCode))
	}

	if err := s.listings.SaveListing(listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// Delete removes the listing and then cleans up its stored images.
// Cleanup is best-effort: failures are reported to the caller but never
// undo the deletion.
func (s *ListingService) Delete(ctx context.Context, id uuid.UUID, userID string) (*dto.DeleteListingResponse, error) {
	listing, err := s.ownedListing(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.listings.DeleteListing(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}

	resp := &dto.DeleteListingResponse{
		Deleted:       true,
		ImagesDeleted: []string{},
		ImagesFailed:  []string{},
	}
	for _, img := range listing.Images {
		if img.Key == "" {
			continue
		}
		if err := s.images.Delete(ctx, img.Key); err != nil {
			slog.Warn("listing image cleanup failed", "listing_id", id, "key", img.Key, "error", err)
			resp.ImagesFailed = append(resp.ImagesFailed, img.Key)
			continue
		}
		resp.ImagesDeleted = append(resp.ImagesDeleted, img.Key)
	}
	return resp, nil
}

func (s *ListingService) ListByUser(userID string) ([]models.Listing, error) {
	listings, err := s.listings.ListingsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) ListByZip(zip, category, size string) ([]models.Listing, error) {
	listings, err := s.listings.ListingsByZip(zip, category, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) ListActive() ([]models.Listing, error) {
	listings, err := s.listings.ActiveListings()
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// SearchByLocation finds active listings within radiusMiles of an origin
// resolved from, in priority order, a free-form address, a zip code, or
// explicit coordinates. Listings without coordinates never match. Results
// come back nearest first.
func (s *ListingService) SearchByLocation(ctx context.Context, address, zipCode string, lat, lng *float64, radiusMiles float64) ([]dto.SearchResult, error) {
	var originLat, originLng float64
	switch {
	case address != "" || zipCode != "":
		origin := s.resolveLocation(ctx, address, zipCode)
		if origin == nil {
			return nil, ErrSearchOriginUnknown
		}
		originLat, originLng = origin.Lat, origin.Lng
	case lat != nil && lng != nil:
		originLat, originLng = *lat, *lng
	default:
		return nil, ErrSearchOriginUnknown
	}

	if radiusMiles <= 0 {
		radiusMiles = s.defaultRadius
	}

	listings, err := s.listings.ActiveListings()
	if err != nil {
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}

	results := make([]dto.SearchResult, 0)
	for _, l := range listings {
		loc := l.Location.Data()
		if loc == nil {
			continue
		}
		distance := geo.Distance(originLat, originLng, loc.Lat, loc.Lng)
		if distance <= radiusMiles {
			results = append(results, dto.SearchResult{Listing: l, DistanceMiles: distance})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMiles < results[j].DistanceMiles
	})
	return results, nil
}

func (s *ListingService) ownedListing(id uuid.UUID, userID string) (*models.Listing, error) {
	listing, err := s.listings.GetListing(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.UserID != userID {
		return nil, ErrNotListingOwner
	}
	return listing, nil
}
