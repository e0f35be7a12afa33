package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/storage"
)

// ImageStore is the object-storage surface the upload endpoints need.
type ImageStore interface {
	Upload(ctx context.Context, contentType string, size int64, r io.Reader) (*models.ImageRef, error)
	Delete(ctx context.Context, key string) error
	SignUpload() (*storage.SignedUploadParams, error)
}

type UploadHandler struct {
	storage ImageStore
}

func NewUploadHandler(st ImageStore) *UploadHandler {
	return &UploadHandler{storage: st}
}

// Signature hands out short-lived signed parameters so clients can upload
// directly to object storage.
func (h *UploadHandler) Signature(c *fiber.Ctx) error {
	if _, err := middleware.CurrentUserID(c); err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	params, err := h.storage.SignUpload()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(params)
}

// UploadImages stores every file of a multipart request. The upload is all
// or nothing: on the first failure, already-stored files are destroyed and
// the request fails.
func (h *UploadHandler) UploadImages(c *fiber.Ctx) error {
	if _, err := middleware.CurrentUserID(c); err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "expected a multipart form")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return fail(c, fiber.StatusBadRequest, "no images supplied")
	}

	uploaded := make([]models.ImageRef, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			h.rollback(c.Context(), uploaded)
			return fail(c, fiber.StatusBadRequest, "unreadable file: "+file.Filename)
		}

		ref, err := h.storage.Upload(c.Context(), file.Header.Get("Content-Type"), file.Size, src)
		src.Close()
		if err != nil {
			h.rollback(c.Context(), uploaded)
			switch {
			case errors.Is(err, storage.ErrUnsupportedType),
				errors.Is(err, storage.ErrImageTooLarge):
				return fail(c, fiber.StatusBadRequest, file.Filename+": "+err.Error())
			}
			return internalError(c, err)
		}
		uploaded = append(uploaded, *ref)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": uploaded})
}

func (h *UploadHandler) rollback(ctx context.Context, uploaded []models.ImageRef) {
	for _, ref := range uploaded {
		if err := h.storage.Delete(ctx, ref.Key); err != nil {
			slog.Error("failed to roll back uploaded image", "key", ref.Key, "error", err)
		}
	}
}
