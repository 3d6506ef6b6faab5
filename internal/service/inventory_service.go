package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/internal/ws"
)

type ProductInput struct {
	SKU               string          `json:"sku" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Unit              string          `json:"unit"`
	Price             decimal.Decimal `json:"price" validate:"decimal_gte0"`
}

type MotorcycleInput struct {
	SKU               string          `json:"sku" validate:"required"`
	Brand             string          `json:"brand" validate:"required"`
	Model             string          `json:"model" validate:"required"`
	Year              int             `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Color             string          `json:"color"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Price             decimal.Decimal `json:"price" validate:"decimal_gte0"`
}

type StockAdjustmentInput struct {
	Kind     model.ItemKind `json:"kind" validate:"required,oneof=PRODUCT MOTORCYCLE"`
	EntityID uuid.UUID      `json:"entity_id" validate:"uuid_required"`
	Delta    int            `json:"delta" validate:"required"`
	Note     string         `json:"note"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, in ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor Actor) (*model.Product, error)
	CreateMotorcycle(ctx context.Context, in MotorcycleInput, actor Actor) (*model.Motorcycle, error)
	AdjustStock(ctx context.Context, in StockAdjustmentInput, actor Actor) (*StockChange, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetAllMotorcycles(ctx context.Context) ([]model.Motorcycle, error)
	GetProductMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	GetActivities(ctx context.Context, entityType model.EntityType, entityID uuid.UUID) ([]model.Activity, error)
}

type inventoryService struct {
	store      repository.Store
	stock      *StockLedger
	activities ActivityRecorder
	notifier   ws.Notifier
	log        *zap.Logger
}

func NewInventoryService(store repository.Store, notifier ws.Notifier, log *zap.Logger) InventoryService {
	if notifier == nil {
		notifier = ws.NopNotifier{}
	}
	return &inventoryService{
		store:    store,
		stock:    NewStockLedger(),
		notifier: notifier,
		log:      log,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, in ProductInput, actor Actor) (*model.Product, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	product := &model.Product{
		SKU:               in.SKU,
		Name:              in.Name,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: 5,
		Unit:              in.Unit,
		Price:             in.Price,
		CreatedByUserID:   &actor.ID,
		UpdatedByUserID:   &actor.ID,
	}
	if in.LowStockThreshold != nil {
		product.LowStockThreshold = *in.LowStockThreshold
	}
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSKUTaken
			}
			return err
		}
		return s.activities.Record(ctx, tx.Activities(), ActivityEntry{
			EntityType:  model.EntityProduct,
			EntityID:    product.ID,
			Type:        model.ActivityCreated,
			Description: fmt.Sprintf("%s created product '%s' with %d in stock", actor.label(), product.Name, product.StockQuantity),
			Changes: map[string]any{
				"stock_quantity": model.Change(nil, product.StockQuantity),
				"price":          model.Change(nil, product.Price.StringFixed(2)),
			},
		}, actor)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ws.EventStockChanged, map[string]any{
		"action":  "product_created",
		"product": map[string]any{"id": product.ID, "sku": product.SKU, "name": product.Name, "stock": product.StockQuantity},
		"user":    map[string]any{"id": actor.ID, "name": actor.Name, "email": actor.Email},
		"message": fmt.Sprintf("%s created product '%s'", actor.label(), product.Name),
	})
	return product, nil
}

// UpdateProduct edits catalog fields under a row lock. Stock is not editable
// here; it only moves through sales and AdjustStock.
func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor Actor) (*model.Product, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		existing, err := tx.Products().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		changes := map[string]any{}
		if existing.Name != in.Name {
			changes["name"] = model.Change(existing.Name, in.Name)
		}
		if existing.SKU != in.SKU {
			changes["sku"] = model.Change(existing.SKU, in.SKU)
		}
		if existing.Unit != in.Unit {
			changes["unit"] = model.Change(existing.Unit, in.Unit)
		}
		if in.LowStockThreshold != nil && existing.LowStockThreshold != *in.LowStockThreshold {
			changes["low_stock_threshold"] = model.Change(existing.LowStockThreshold, *in.LowStockThreshold)
			existing.LowStockThreshold = *in.LowStockThreshold
		}
		priceChanged := !existing.Price.Equal(in.Price)
		oldPrice := existing.Price

		existing.Name = in.Name
		existing.SKU = in.SKU
		existing.Unit = in.Unit
		existing.Price = in.Price
		existing.UpdatedBy = actor.ID
		existing.UpdatedByUserID = &actor.ID

		if err := tx.Products().Update(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSKUTaken
			}
			return err
		}

		if priceChanged {
			if err := s.activities.Record(ctx, tx.Activities(), ActivityEntry{
				EntityType:  model.EntityProduct,
				EntityID:    existing.ID,
				Type:        model.ActivityPriceChanged,
				Description: fmt.Sprintf("Price changed from %s to %s", oldPrice.StringFixed(2), in.Price.StringFixed(2)),
				Changes:     map[string]any{"price": model.Change(oldPrice.StringFixed(2), in.Price.StringFixed(2))},
			}, actor); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := s.activities.Record(ctx, tx.Activities(), ActivityEntry{
				EntityType:  model.EntityProduct,
				EntityID:    existing.ID,
				Type:        model.ActivityUpdated,
				Description: fmt.Sprintf("%s updated product '%s'", actor.label(), existing.Name),
				Changes:     changes,
			}, actor); err != nil {
				return err
			}
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) CreateMotorcycle(ctx context.Context, in MotorcycleInput, actor Actor) (*model.Motorcycle, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	motorcycle := &model.Motorcycle{
		SKU:               in.SKU,
		Brand:             in.Brand,
		Model:             in.Model,
		Year:              in.Year,
		Color:             in.Color,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: 1,
		Price:             in.Price,
		CreatedByUserID:   &actor.ID,
		UpdatedByUserID:   &actor.ID,
	}
	if in.LowStockThreshold != nil {
		motorcycle.LowStockThreshold = *in.LowStockThreshold
	}
	motorcycle.CreatedBy = actor.ID
	motorcycle.UpdatedBy = actor.ID

	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if err := tx.Motorcycles().Create(ctx, motorcycle); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSKUTaken
			}
			return err
		}
		return s.activities.Record(ctx, tx.Activities(), ActivityEntry{
			EntityType:  model.EntityMotorcycle,
			EntityID:    motorcycle.ID,
			Type:        model.ActivityCreated,
			Description: fmt.Sprintf("%s added motorcycle '%s'", actor.label(), motorcycle.DisplayName()),
			Changes: map[string]any{
				"stock_quantity": model.Change(nil, motorcycle.StockQuantity),
				"price":          model.Change(nil, motorcycle.Price.StringFixed(2)),
			},
		}, actor)
	})
	if err != nil {
		return nil, err
	}
	return motorcycle, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, in StockAdjustmentInput, actor Actor) (*StockChange, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	ref := model.LineRef{Kind: in.Kind}
	id := in.EntityID
	if in.Kind == model.ItemKindMotorcycle {
		ref.MotorcycleID = &id
	} else {
		ref.ProductID = &id
	}

	var change StockChange
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		c, err := s.stock.Adjust(ctx, tx, ref, in.Delta, in.Note, actor)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.String("kind", string(change.Kind)),
		zap.String("entity_id", change.EntityID.String()),
		zap.Int("old_stock", change.OldStock),
		zap.Int("new_stock", change.NewStock),
		zap.String("user_id", actor.ID),
	)
	s.notifier.Publish(ws.EventStockChanged, map[string]any{
		"action":  "stock_adjusted",
		"change":  change,
		"user":    map[string]any{"id": actor.ID, "name": actor.Name, "email": actor.Email},
		"message": fmt.Sprintf("%s changed stock of '%s' from %d to %d", actor.label(), change.Name, change.OldStock, change.NewStock),
	})
	if change.LowStock() {
		s.notifier.Publish(ws.EventLowStock, change)
	}
	return &change, nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.Products().FindAll(ctx)
}

func (s *inventoryService) GetAllMotorcycles(ctx context.Context) ([]model.Motorcycle, error) {
	return s.store.Motorcycles().FindAll(ctx)
}

func (s *inventoryService) GetProductMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.store.Products().FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.store.StockMovements().ListByProduct(ctx, productID)
}

func (s *inventoryService) GetActivities(ctx context.Context, entityType model.EntityType, entityID uuid.UUID) ([]model.Activity, error) {
	return s.store.Activities().ListByEntity(ctx, entityType, entityID)
}
