// Package storage stores listing images in Cloudinary and hands out signed
// parameters for direct browser uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/config"
	"github.com/swapcircle/swapcircle-api/internal/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported image content type")
	ErrImageTooLarge   = errors.New("image exceeds the maximum allowed size")
)

// Cloudinary implements image storage on top of the Cloudinary upload API.
type Cloudinary struct {
	cld          *cloudinary.Cloudinary
	apiKey       string
	apiSecret    string
	cloudName    string
	folder       string
	maxBytes     int64
	allowedTypes map[string]bool
	signatureTTL time.Duration
}

func NewCloudinary(cfg *config.Config) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedImageTypes))
	for _, t := range cfg.AllowedImageTypes {
		allowed[t] = true
	}

	return &Cloudinary{
		cld:          cld,
		apiKey:       cfg.CloudinaryAPIKey,
		apiSecret:    cfg.CloudinaryAPISecret,
		cloudName:    cfg.CloudinaryCloudName,
		folder:       cfg.UploadFolder,
		maxBytes:     cfg.MaxImageSizeBytes(),
		allowedTypes: allowed,
		signatureTTL: cfg.UploadSignatureTTL,
	}, nil
}

// Upload validates and stores a single image, returning its storage key and
// delivery URL.
func (s *Cloudinary) Upload(ctx context.Context, contentType string, size int64, r io.Reader) (*models.ImageRef, error) {
	if !s.allowedTypes[contentType] {
		return nil, ErrUnsupportedType
	}
	if size > s.maxBytes {
		return nil, ErrImageTooLarge
	}

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &models.ImageRef{Key: result.PublicID, URL: result.SecureURL}, nil
}

// Delete removes a stored image by its storage key. Deleting a key that no
// longer exists is not an error.
func (s *Cloudinary) Delete(ctx context.Context, key string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to delete image %s: %s", key, result.Result)
	}
	return nil
}

// SignedUploadParams are handed to clients so they can upload straight to
// Cloudinary without routing image bytes through this backend.
type SignedUploadParams struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
	PublicID  string `json:"public_id"`
	Timestamp int64  `json:"timestamp"`
	ExpiresAt int64  `json:"expires_at"`
	Signature string `json:"signature"`
}

// SignUpload produces short-lived signed parameters for a direct upload.
func (s *Cloudinary) SignUpload() (*SignedUploadParams, error) {
	now := time.Now()
	publicID := uuid.New().String()

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(now.Unix(), 10))
	params.Set("folder", s.folder)
	params.Set("public_id", publicID)

	signature, err := api.SignParameters(params, s.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload parameters: %w", err)
	}

	return &SignedUploadParams{
		CloudName: s.cloudName,
		APIKey:    s.apiKey,
		Folder:    s.folder,
		PublicID:  publicID,
		Timestamp: now.Unix(),
		ExpiresAt: now.Add(s.signatureTTL).Unix(),
		Signature: signature,
	}, nil
}
