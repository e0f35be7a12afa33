package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/swapcircle/swapcircle-api/internal/geo"
)

// GeocodeProvider is the lookup surface the geocode endpoints need.
type GeocodeProvider interface {
	Suggest(ctx context.Context, query string, limit int) ([]geo.Suggestion, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*geo.Result, error)
}

type GeoHandler struct {
	geocoder GeocodeProvider
}

func NewGeoHandler(geocoder GeocodeProvider) *GeoHandler {
	return &GeoHandler{geocoder: geocoder}
}

// Suggest returns address candidates for a partial query, for listing and
// search form autocomplete.
func (h *GeoHandler) Suggest(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fail(c, fiber.StatusBadRequest, "q is required")
	}
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		val, err := strconv.Atoi(limitStr)
		if err != nil || val <= 0 {
			return fail(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = val
	}

	suggestions, err := h.geocoder.Suggest(c.Context(), query, limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// Reverse resolves coordinates to address components.
func (h *GeoHandler) Reverse(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		return fail(c, fiber.StatusBadRequest, "lat and lng must be numbers")
	}

	result, err := h.geocoder.ReverseGeocode(c.Context(), lat, lng)
	if err != nil {
		return internalError(c, err)
	}
	if result == nil {
		return fail(c, fiber.StatusNotFound, "no address known for this location")
	}
	return c.JSON(result)
}
