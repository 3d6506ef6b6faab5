package handler

import (
	"errors"

	"go-erp-sales/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// getActor reads the identity RequireAuth stored on the request.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if v, ok := c.Locals("user_id").(string); ok && v != "" {
		actor.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok && v != "" {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrWholesaleRequiresCustomer),
		errors.Is(err, service.ErrDraftEmpty),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDraftNotOpen),
		errors.Is(err, service.ErrInvalidStatusTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotDraftOwner):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrMotorcycleNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvoiceNumberTaken),
		errors.Is(err, service.ErrDraftBusy),
		errors.Is(err, service.ErrSKUTaken):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error": msg}. Unexpected errors are logged and
// replaced with a generic message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
