package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
)

var (
	ErrValidation                = errors.New("validation failed")
	ErrWholesaleRequiresCustomer = errors.New("Wholesale sales require a customer")
	ErrDraftEmpty                = errors.New("Draft must have at least one item")
	ErrDraftNotFound             = errors.New("draft not found")
	ErrDraftNotOpen              = errors.New("draft is already finalized or cancelled")
	ErrNotDraftOwner             = errors.New("draft belongs to another user")
	ErrInvalidStatusTransition   = errors.New("invalid draft status transition")
	ErrDraftBusy                 = errors.New("draft is being finalized by another request")
	ErrCustomerNotFound          = errors.New("customer not found")
	ErrProductNotFound           = errors.New("product not found")
	ErrMotorcycleNotFound        = errors.New("motorcycle not found")
	ErrSaleNotFound              = errors.New("sale not found")
	ErrInvoiceNotFound           = errors.New("invoice not found")
	ErrInvoiceNumberTaken        = errors.New("invoice number already exists")
	ErrSKUTaken                  = errors.New("SKU already exists")
	ErrInsufficientStock         = errors.New("insufficient stock")
)

// InsufficientStockError names the entity and the quantities involved. It
// matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	Kind      model.ItemKind
	EntityID  uuid.UUID
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	kind := "product"
	if e.Kind == model.ItemKindMotorcycle {
		kind = "motorcycle"
	}
	if e.Name != "" {
		kind += " " + e.Name
	}
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", kind, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
