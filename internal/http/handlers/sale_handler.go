package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/log"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

type SaleHandler struct {
	Ledger *services.SaleService
}

type saleCreateReq struct {
	VehicleID     string           `json:"vehicleId"`
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerPhone string           `json:"customerPhone"`
	SalePrice     decimal.Decimal  `json:"salePrice"`
	TaxAmount     *decimal.Decimal `json:"taxAmount"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
	Notes         string           `json:"notes"`
	SaleDate      string           `json:"saleDate"`
}

type saleUpdateReq struct {
	CustomerName  *string          `json:"customerName"`
	CustomerEmail *string          `json:"customerEmail"`
	CustomerPhone *string          `json:"customerPhone"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	TaxAmount     *decimal.Decimal `json:"taxAmount"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	PaymentMethod *string          `json:"paymentMethod"`
	Status        *string          `json:"status"`
	Notes         *string          `json:"notes"`
	SaleDate      *string          `json:"saleDate"`
}

// POST /sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	p := principal(c)
	var req saleCreateReq
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "sales.create.badbody", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sale, err := h.Ledger.Create(*p, services.SaleInput{
		VehicleID:     req.VehicleID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		SalePrice:     req.SalePrice,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Notes:         req.Notes,
		SaleDate:      req.SaleDate,
	})
	if err != nil {
		applog.Error(c, "sales.create.fail", err, map[string]any{"vehicle_id": req.VehicleID})
		return fail(c, err)
	}

	applog.Audit(c, "sales.create", map[string]any{
		"sale_id": sale.ID, "invoice": sale.InvoiceNumber, "vehicle_id": sale.VehicleID,
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// PUT /sales/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	p := principal(c)
	id := c.Params("id")
	var req saleUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sale, err := h.Ledger.Update(*p, id, services.SaleUpdate{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		SalePrice:     req.SalePrice,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Notes:         req.Notes,
		SaleDate:      req.SaleDate,
	})
	if err != nil {
		applog.Error(c, "sales.update.fail", err, map[string]any{"sale_id": id})
		return fail(c, err)
	}

	applog.Audit(c, "sales.update", map[string]any{"sale_id": id})
	return c.JSON(sale)
}

// DELETE /sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	p := principal(c)
	id := c.Params("id")
	if err := h.Ledger.Delete(*p, id); err != nil {
		applog.Error(c, "sales.delete.fail", err, map[string]any{"sale_id": id})
		return fail(c, err)
	}
	applog.Audit(c, "sales.delete", map[string]any{"sale_id": id})
	return c.JSON(fiber.Map{"message": "venta eliminada"})
}

// GET /sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.Ledger.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sale)
}

// GET /sales?vehicleId=...
func (h *SaleHandler) List(c *fiber.Ctx) error {
	if vid := c.Query("vehicleId"); vid != "" {
		sales, err := h.Ledger.ListByVehicle(vid)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(sales)
	}
	sales, err := h.Ledger.List(c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}
