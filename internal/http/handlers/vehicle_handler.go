package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
)

type VehicleHandler struct {
	Vehicles *repos.VehicleRepo
}

// GET /vehicles
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	vehicles, err := h.Vehicles.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(vehicles)
}

// GET /vehicles/:id
func (h *VehicleHandler) Get(c *fiber.Ctx) error {
	v, err := h.Vehicles.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vehicle not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(v)
}
