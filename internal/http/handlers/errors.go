package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrVehicleNotAvailable),
		errors.Is(err, services.ErrBadFile):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrVehicleNotFound),
		errors.Is(err, services.ErrSaleNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		// Don't leak store internals
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
