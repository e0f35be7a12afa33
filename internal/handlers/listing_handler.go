package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/services"
)

type ListingHandler struct {
	listings   *services.ListingService
	moderation *services.ModerationService
}

func NewListingHandler(listings *services.ListingService, moderation *services.ModerationService) *ListingHandler {
	return &ListingHandler{listings: listings, moderation: moderation}
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	var req dto.CreateListingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.moderation.CheckContent(false, req.Title, req.Description); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingOwnerUnknown),
			errors.Is(err, services.ErrInvalidListingStatus):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// List serves three query shapes: by owner (?user_id=), by zip code with
// optional category/size filters (?zip=), or every active listing.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	if userID := c.Query("user_id"); userID != "" {
		listings, err := h.listings.ListByUser(userID)
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(listings)
	}
	if zip := c.Query("zip"); zip != "" {
		listings, err := h.listings.ListByZip(zip, c.Query("category"), c.Query("size"))
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(listings)
	}

	listings, err := h.listings.ListActive()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(listings)
}

// Search finds active listings near an address, a zip code, or explicit
// coordinates, in that priority order.
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	var lat, lng *float64
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		latVal, latErr := strconv.ParseFloat(latStr, 64)
		lngVal, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			return fail(c, fiber.StatusBadRequest, "lat and lng must be numbers")
		}
		lat, lng = &latVal, &lngVal
	}

	var radius float64
	if radiusStr := c.Query("radius"); radiusStr != "" {
		val, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || val <= 0 {
			return fail(c, fiber.StatusBadRequest, "radius must be a positive number")
		}
		radius = val
	}

	results, err := h.listings.SearchByLocation(c.Context(), c.Query("address"), c.Query("zip"), lat, lng, radius)
	if err != nil {
		if errors.Is(err, services.ErrSearchOriginUnknown) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(results)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.listings.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid listing id")
	}

	var req dto.UpdateListingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var screened []string
	if req.Title != nil {
		screened = append(screened, *req.Title)
	}
	if req.Description != nil {
		screened = append(screened, *req.Description)
	}
	if err := h.moderation.CheckContent(false, screened...); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Update(c.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			return fail(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidListingStatus):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid listing id")
	}

	resp, err := h.listings.Delete(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(resp)
}
