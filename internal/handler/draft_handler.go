package handler

import (
	"strings"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DraftHandler struct {
	service service.DraftService
	log     *zap.Logger
}

func NewDraftHandler(s service.DraftService, log *zap.Logger) *DraftHandler {
	return &DraftHandler{service: s, log: log}
}

// FinalizeRequest is the body of POST /drafts/:id/finalize. Every field is
// optional.
type FinalizeRequest struct {
	PaymentMethod string           `json:"paymentMethod"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
	InvoiceNumber string           `json:"invoiceNumber"`
	Currency      string           `json:"currency"`
	Notes         string           `json:"notes"`
}

type UpdateStatusRequest struct {
	Status model.DraftStatus `json:"status"`
}

// POST /api/v1/drafts
func (h *DraftHandler) CreateDraft(c *fiber.Ctx) error {
	var req service.DraftInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	draft, err := h.service.Create(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Draft created", "data": draft})
}

// GET /api/v1/drafts?status=READY
func (h *DraftHandler) GetDrafts(c *fiber.Ctx) error {
	status := model.DraftStatus(strings.ToUpper(c.Query("status")))
	drafts, err := h.service.List(c.UserContext(), status, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(drafts)
}

// GET /api/v1/drafts/:id
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid draft ID"})
	}
	draft, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(draft)
}

// PUT /api/v1/drafts/:id
func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid draft ID"})
	}
	var req service.DraftInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	draft, err := h.service.Update(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Draft updated", "data": draft})
}

// POST /api/v1/drafts/:id/cancel
func (h *DraftHandler) CancelDraft(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid draft ID"})
	}
	draft, err := h.service.Cancel(c.UserContext(), id, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Draft cancelled", "data": draft})
}

// PATCH /api/v1/drafts/:id/status
func (h *DraftHandler) UpdateDraftStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid draft ID"})
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	draft, err := h.service.UpdateStatus(c.UserContext(), id, req.Status, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Draft status updated", "data": draft})
}

// POST /api/v1/drafts/:id/finalize
func (h *DraftHandler) FinalizeDraft(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid draft ID"})
	}

	var req FinalizeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	result, err := h.service.Finalize(c.UserContext(), id, service.FinalizeInput{
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    req.AmountPaid,
		InvoiceNumber: req.InvoiceNumber,
		Currency:      model.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Notes:         req.Notes,
	}, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"saleId":        result.SaleID,
		"invoiceId":     result.InvoiceID,
		"invoiceNumber": result.InvoiceNumber,
	})
}
