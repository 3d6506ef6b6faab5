package handler

import (
	"strings"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *zap.Logger
}

func NewInventoryHandler(s service.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, log: log}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// GET /api/v1/products/:id/movements
func (h *InventoryHandler) GetProductMovements(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	movements, err := h.service.GetProductMovements(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) CreateMotorcycle(c *fiber.Ctx) error {
	var req service.MotorcycleInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	motorcycle, err := h.service.CreateMotorcycle(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Motorcycle created", "data": motorcycle})
}

func (h *InventoryHandler) GetMotorcycles(c *fiber.Ctx) error {
	motorcycles, err := h.service.GetAllMotorcycles(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(motorcycles)
}

// POST /api/v1/stock-adjustments
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.StockAdjustmentInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Kind = model.ItemKind(strings.ToUpper(string(req.Kind)))

	change, err := h.service.AdjustStock(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": change})
}

// GET /api/v1/activities?entity_type=PRODUCT&entity_id=<uuid>
func (h *InventoryHandler) GetActivities(c *fiber.Ctx) error {
	entityType := model.EntityType(strings.ToUpper(c.Query("entity_type")))
	if entityType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "entity_type is required"})
	}
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entity_id"})
	}

	activities, err := h.service.GetActivities(c.UserContext(), entityType, entityID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(activities)
}
