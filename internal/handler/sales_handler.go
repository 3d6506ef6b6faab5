package handler

import (
	"bytes"
	"fmt"

	"go-erp-sales/internal/export"
	"go-erp-sales/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SalesHandler struct {
	service service.SalesService
	log     *zap.Logger
}

func NewSalesHandler(s service.SalesService, log *zap.Logger) *SalesHandler {
	return &SalesHandler{service: s, log: log}
}

// GET /api/v1/sales/:id
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sale)
}

// GET /api/v1/invoices/:id
func (h *SalesHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}
	invoice, err := h.service.GetInvoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(invoice)
}

// GET /api/v1/invoices/:id/export
func (h *SalesHandler) ExportInvoice(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var buf bytes.Buffer
	invoice, err := h.service.ExportInvoice(c.UserContext(), id, &buf)
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename(invoice)))
	return c.Send(buf.Bytes())
}
