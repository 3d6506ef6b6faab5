package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/pkg/pricing"
)

// StockChange describes one quantity write on a product or motorcycle.
type StockChange struct {
	Kind      model.ItemKind `json:"kind"`
	EntityID  uuid.UUID      `json:"entity_id"`
	Name      string         `json:"name"`
	OldStock  int            `json:"old_stock"`
	NewStock  int            `json:"new_stock"`
	Threshold int            `json:"low_stock_threshold"`
}

func (c StockChange) LowStock() bool {
	return c.NewStock <= c.Threshold
}

type stockKey struct {
	kind model.ItemKind
	id   uuid.UUID
}

type stockEntry struct {
	ref       model.LineRef
	name      string
	stock     int
	threshold int
}

// LockedStock holds the rows locked for one transaction. Quantities are kept
// current as lines are applied, so two lines on the same entity see each
// other's decrement.
type LockedStock map[stockKey]*stockEntry

// SaleRef identifies the documents a stock decrement belongs to.
type SaleRef struct {
	SaleID        uuid.UUID
	InvoiceID     uuid.UUID
	InvoiceNumber string
}

// StockLedger owns every write to stock quantities.
type StockLedger struct {
	activities ActivityRecorder
}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

func entityTypeOf(kind model.ItemKind) model.EntityType {
	if kind == model.ItemKindMotorcycle {
		return model.EntityMotorcycle
	}
	return model.EntityProduct
}

// Lock takes a row lock on every referenced entity, in (kind, id) order so
// concurrent postings touching the same rows cannot deadlock.
func (l *StockLedger) Lock(ctx context.Context, tx repository.Repositories, refs []model.LineRef) (LockedStock, error) {
	keys := make([]stockKey, 0, len(refs))
	byKey := make(map[stockKey]model.LineRef, len(refs))
	for _, ref := range refs {
		k := stockKey{kind: ref.Kind, id: ref.EntityID()}
		if _, seen := byKey[k]; seen {
			continue
		}
		byKey[k] = ref
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b stockKey) int {
		if c := strings.Compare(string(a.kind), string(b.kind)); c != 0 {
			return c
		}
		return strings.Compare(a.id.String(), b.id.String())
	})

	locked := make(LockedStock, len(keys))
	for _, k := range keys {
		entry, err := l.lockOne(ctx, tx, byKey[k])
		if err != nil {
			return nil, err
		}
		locked[k] = entry
	}
	return locked, nil
}

func (l *StockLedger) lockOne(ctx context.Context, tx repository.Repositories, ref model.LineRef) (*stockEntry, error) {
	id := ref.EntityID()
	if ref.Kind == model.ItemKindMotorcycle {
		m, err := tx.Motorcycles().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMotorcycleNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		return &stockEntry{ref: ref, name: m.DisplayName(), stock: m.StockQuantity, threshold: m.LowStockThreshold}, nil
	}

	p, err := tx.Products().FindByIDForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &stockEntry{ref: ref, name: p.Name, stock: p.StockQuantity, threshold: p.LowStockThreshold}, nil
}

// Sell decrements stock for one sale line. The line must have been passed to
// Lock on the same transaction.
func (l *StockLedger) Sell(ctx context.Context, tx repository.Repositories, locked LockedStock, line model.LineItem, sale SaleRef, actor Actor) (StockChange, error) {
	ref := line.Ref()
	entry, ok := locked[stockKey{kind: ref.Kind, id: ref.EntityID()}]
	if !ok {
		return StockChange{}, fmt.Errorf("stock row for %s %s was not locked", ref.Kind, ref.EntityID())
	}

	if line.Quantity > entry.stock {
		return StockChange{}, &InsufficientStockError{
			Kind:      ref.Kind,
			EntityID:  ref.EntityID(),
			Name:      entry.name,
			Available: entry.stock,
			Requested: line.Quantity,
		}
	}

	oldStock := entry.stock
	newStock := max(oldStock-line.Quantity, 0)
	if err := l.writeStock(ctx, tx, ref, newStock, actor); err != nil {
		return StockChange{}, err
	}
	entry.stock = newStock

	invoiceID := sale.InvoiceID
	if ref.Kind == model.ItemKindProduct {
		saleID := sale.SaleID
		movement := &model.StockMovement{
			ProductID:       ref.EntityID(),
			Type:            model.MovementSale,
			Quantity:        -line.Quantity,
			BalanceAfter:    newStock,
			SaleID:          &saleID,
			InvoiceID:       &invoiceID,
			Note:            "Sale " + sale.InvoiceNumber,
			CreatedByUserID: actor.ID,
		}
		if err := tx.StockMovements().Create(ctx, movement); err != nil {
			return StockChange{}, err
		}
	}

	revenue := pricing.LineTotal(line.PricingLine())
	stockDelta := model.Change(oldStock, newStock)
	entityType := entityTypeOf(ref.Kind)

	if err := l.activities.Record(ctx, tx.Activities(), ActivityEntry{
		EntityType:  entityType,
		EntityID:    ref.EntityID(),
		Type:        model.ActivityStockReduced,
		Description: fmt.Sprintf("Stock reduced from %d to %d by sale %s", oldStock, newStock, sale.InvoiceNumber),
		Changes:     map[string]any{"stock_quantity": stockDelta},
		InvoiceID:   &invoiceID,
	}, actor); err != nil {
		return StockChange{}, err
	}

	if err := l.activities.Record(ctx, tx.Activities(), ActivityEntry{
		EntityType:  entityType,
		EntityID:    ref.EntityID(),
		Type:        model.ActivityInvoiced,
		Description: fmt.Sprintf("Invoiced %d x %s on %s", line.Quantity, entry.name, sale.InvoiceNumber),
		Changes: map[string]any{
			"stock_quantity": stockDelta,
			"revenue":        model.Change(nil, revenue.StringFixed(2)),
		},
		InvoiceID: &invoiceID,
	}, actor); err != nil {
		return StockChange{}, err
	}

	return StockChange{
		Kind:      ref.Kind,
		EntityID:  ref.EntityID(),
		Name:      entry.name,
		OldStock:  oldStock,
		NewStock:  newStock,
		Threshold: entry.threshold,
	}, nil
}

// Adjust applies a manual signed delta outside of a sale. Products get a
// RESTOCK or ADJUSTMENT movement; both kinds get a STOCK_ADDED or
// STOCK_REDUCED activity.
func (l *StockLedger) Adjust(ctx context.Context, tx repository.Repositories, ref model.LineRef, delta int, note string, actor Actor) (StockChange, error) {
	if delta == 0 {
		return StockChange{}, validationErrorf("quantity change must not be zero")
	}
	locked, err := l.Lock(ctx, tx, []model.LineRef{ref})
	if err != nil {
		return StockChange{}, err
	}
	entry := locked[stockKey{kind: ref.Kind, id: ref.EntityID()}]

	oldStock := entry.stock
	newStock := oldStock + delta
	if newStock < 0 {
		return StockChange{}, &InsufficientStockError{
			Kind:      ref.Kind,
			EntityID:  ref.EntityID(),
			Name:      entry.name,
			Available: oldStock,
			Requested: -delta,
		}
	}
	if err := l.writeStock(ctx, tx, ref, newStock, actor); err != nil {
		return StockChange{}, err
	}

	if ref.Kind == model.ItemKindProduct {
		movementType := model.MovementAdjustment
		if delta > 0 {
			movementType = model.MovementRestock
		}
		if err := tx.StockMovements().Create(ctx, &model.StockMovement{
			ProductID:       ref.EntityID(),
			Type:            movementType,
			Quantity:        delta,
			BalanceAfter:    newStock,
			Note:            note,
			CreatedByUserID: actor.ID,
		}); err != nil {
			return StockChange{}, err
		}
	}

	activityType := model.ActivityStockAdded
	verb := "added"
	if delta < 0 {
		activityType = model.ActivityStockReduced
		verb = "removed"
	}
	description := fmt.Sprintf("%s %s %d units (%d -> %d)", actor.label(), verb, abs(delta), oldStock, newStock)
	if note != "" {
		description += ": " + note
	}
	if err := l.activities.Record(ctx, tx.Activities(), ActivityEntry{
		EntityType:  entityTypeOf(ref.Kind),
		EntityID:    ref.EntityID(),
		Type:        activityType,
		Description: description,
		Changes:     map[string]any{"stock_quantity": model.Change(oldStock, newStock)},
	}, actor); err != nil {
		return StockChange{}, err
	}

	return StockChange{
		Kind:      ref.Kind,
		EntityID:  ref.EntityID(),
		Name:      entry.name,
		OldStock:  oldStock,
		NewStock:  newStock,
		Threshold: entry.threshold,
	}, nil
}

func (l *StockLedger) writeStock(ctx context.Context, tx repository.Repositories, ref model.LineRef, newStock int, actor Actor) error {
	if ref.Kind == model.ItemKindMotorcycle {
		return tx.Motorcycles().UpdateStock(ctx, ref.EntityID(), newStock, actor.ID)
	}
	return tx.Products().UpdateStock(ctx, ref.EntityID(), newStock, actor.ID)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
