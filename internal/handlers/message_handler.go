package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/services"
)

type MessageHandler struct {
	messages   *services.MessageService
	swaps      *services.SwapService
	moderation *services.ModerationService
}

func NewMessageHandler(messages *services.MessageService, swaps *services.SwapService, moderation *services.ModerationService) *MessageHandler {
	return &MessageHandler{messages: messages, swaps: swaps, moderation: moderation}
}

// ListForSwap returns the conversation of a swap the caller participates
// in, oldest first.
func (h *MessageHandler) ListForSwap(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	swapID, err := uuid.Parse(c.Params("swapId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid swap id")
	}

	if _, err := h.swaps.VerifyParticipant(swapID, userID); err != nil {
		if errors.Is(err, services.ErrSwapNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}

	msgs, err := h.messages.ListForSwap(swapID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(msgs)
}

// Post sends a message to the other participant of the swap.
func (h *MessageHandler) Post(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	swapID, err := uuid.Parse(c.Params("swapId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid swap id")
	}

	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.moderation.CheckContent(true, req.Content); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	swap, err := h.swaps.VerifyParticipant(swapID, userID)
	if err != nil {
		if errors.Is(err, services.ErrSwapNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}

	recipientID := swap.OtherParticipant(userID)
	blocked, err := h.moderation.InteractionBlocked(userID, recipientID)
	if err != nil {
		return internalError(c, err)
	}
	if blocked {
		return fail(c, fiber.StatusForbidden, "messaging is blocked between these users")
	}

	msg, err := h.messages.PostUserMessage(swapID, userID, recipientID, req.Content)
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkRead flips the read flag; only the recipient can do it, and doing it
// twice is harmless.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid message id")
	}
	swapID, err := uuid.Parse(c.Query("swap_id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "swap_id query parameter is required")
	}

	msg, err := h.messages.MarkRead(swapID, messageID, userID)
	if err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(msg)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid message id")
	}
	swapID, err := uuid.Parse(c.Query("swap_id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "swap_id query parameter is required")
	}

	if err := h.messages.Delete(swapID, messageID, userID); err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unread reports the caller's unread totals across all conversations.
func (h *MessageHandler) Unread(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid or missing authorization token")
	}

	summary, err := h.messages.CountUnread(userID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(summary)
}
