package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/log"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

type CheckoutHandler struct {
	Ledger *services.SaleService
}

type checkoutReq struct {
	VehicleID     string `json:"vehicleId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// POST /checkout/process — buyer purchase; customer identity comes from
// the session, not the body.
func (h *CheckoutHandler) Process(c *fiber.Ctx) error {
	p := principal(c)
	var req checkoutReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sale, err := h.Ledger.Checkout(*p, req.VehicleID, req.PaymentMethod, req.Notes)
	if err != nil {
		applog.Error(c, "checkout.fail", err, map[string]any{"vehicle_id": req.VehicleID})
		return fail(c, err)
	}

	applog.Audit(c, "checkout.process", map[string]any{
		"sale_id": sale.ID, "invoice": sale.InvoiceNumber, "vehicle_id": sale.VehicleID,
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}
