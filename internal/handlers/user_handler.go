package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/services"
)

type UserHandler struct {
	users    *services.UserService
	listings *services.ListingService
}

func NewUserHandler(users *services.UserService, listings *services.ListingService) *UserHandler {
	return &UserHandler{users: users, listings: listings}
}

// Signup creates a profile for the verified caller.
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Signup(claims, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Me returns the caller's own full profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	user, err := h.users.Get(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(user)
}

// Get returns the full profile to its owner and the redacted public view
// to everyone else.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	callerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	targetID := c.Params("id")

	if callerID == targetID {
		user, err := h.users.Get(targetID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return fail(c, fiber.StatusNotFound, err.Error())
			}
			return internalError(c, err)
		}
		return c.JSON(user)
	}

	profile, err := h.users.PublicProfile(targetID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(profile)
}

// Update edits the caller's own profile.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	callerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	if c.Params("id") != callerID {
		return fail(c, fiber.StatusForbidden, "you can only update your own profile")
	}

	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(callerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(user)
}

// Deactivate soft-deletes the caller's own profile.
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	callerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	if c.Params("id") != callerID {
		return fail(c, fiber.StatusForbidden, "you can only deactivate your own profile")
	}

	if err := h.users.Deactivate(callerID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Listings returns a member's listings.
func (h *UserHandler) Listings(c *fiber.Ctx) error {
	listings, err := h.listings.ListByUser(c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(listings)
}
