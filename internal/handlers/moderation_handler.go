package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/services"
)

type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(moderation *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	var req dto.CreateReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	report, err := h.moderation.CreateReport(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentRejected) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	var req dto.BlockUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	block, err := h.moderation.BlockUser(userID, req.BlockedID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfBlock):
			return fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrAlreadyBlocked):
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(block)
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid block id")
	}

	if err := h.moderation.UnblockUser(blockID, userID); err != nil {
		if errors.Is(err, services.ErrBlockNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
