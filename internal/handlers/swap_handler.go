package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/services"
)

type SwapHandler struct {
	swaps *services.SwapService
}

func NewSwapHandler(swaps *services.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

func (h *SwapHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	var req dto.CreateSwapRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	swap, err := h.swaps.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfSwap),
			errors.Is(err, services.ErrSwapUserMissing),
			errors.Is(err, services.ErrSwapListingMissing),
			errors.Is(err, services.ErrListingOwnerMismatch):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(swap)
}

// List returns the caller's swaps, optionally filtered by role
// (?role=requester|owner) and status.
func (h *SwapHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	views, err := h.swaps.ListByUser(userID, c.Query("role"), c.Query("status"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSwapRole),
			errors.Is(err, services.ErrInvalidSwapStatus):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(views)
}

// Pending is the action queue: swaps waiting on the caller as owner.
func (h *SwapHandler) Pending(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	views, err := h.swaps.PendingForOwner(userID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(views)
}

func (h *SwapHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	history, err := h.swaps.History(userID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(history)
}

func (h *SwapHandler) ByListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid listing id")
	}

	views, err := h.swaps.ListByListing(listingID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(views)
}

func (h *SwapHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid swap id")
	}

	view, err := h.swaps.Get(swapID, userID)
	if err != nil {
		if errors.Is(err, services.ErrSwapNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(view)
}

// Update runs a swap transition on behalf of the caller.
func (h *SwapHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSwapRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.transition(c, &req)
}

// Accept, Reject and Complete are sugar over the status transition.
func (h *SwapHandler) Accept(c *fiber.Ctx) error {
	status := models.SwapStatusAccepted
	return h.transition(c, &dto.UpdateSwapRequest{Status: &status})
}

func (h *SwapHandler) Reject(c *fiber.Ctx) error {
	status := models.SwapStatusRejected
	return h.transition(c, &dto.UpdateSwapRequest{Status: &status})
}

func (h *SwapHandler) Complete(c *fiber.Ctx) error {
	status := models.SwapStatusCompleted
	return h.transition(c, &dto.UpdateSwapRequest{Status: &status})
}

func (h *SwapHandler) transition(c *fiber.Ctx, req *dto.UpdateSwapRequest) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid swap id")
	}

	view, err := h.swaps.Transition(swapID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSwapNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidSwapStatus):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(view)
}

func (h *SwapHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid swap id")
	}

	if err := h.swaps.Delete(swapID, userID); err != nil {
		if errors.Is(err, services.ErrSwapNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
