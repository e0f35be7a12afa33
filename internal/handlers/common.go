// Package handlers translates HTTP requests into service calls and
// sentinel errors back into status codes.
package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/swapcircle/swapcircle-api/internal/dto"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body. A non-nil return
// has already written the 400 response.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// internalError hides dependency failures behind a generic body; the
// detail goes to the logs (and from there to the error sinks).
func internalError(c *fiber.Ctx, err error) error {
	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err,
	)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}
