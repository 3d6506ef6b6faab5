package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.products {
		if existing.SKU == product.SKU {
			return repository.ErrDuplicate
		}
	}
	stamp(&product.BaseModel, r.s.now())
	stored := *product
	stored.Movements = nil
	r.s.products[product.ID] = stored
	return nil
}

func (r productRepo) FindAll(_ context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Product) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r productRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r productRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r productRepo) Update(_ context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = r.s.now()
	stored := *product
	stored.Movements = nil
	r.s.products[product.ID] = stored
	return nil
}

func (r productRepo) UpdateStock(_ context.Context, id uuid.UUID, newStock int, updatedBy string) error {
	if err := r.s.fail("products.update_stock"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.StockQuantity = newStock
	p.UpdatedBy = updatedBy
	p.UpdatedByUserID = &updatedBy
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return nil
}

type motorcycleRepo struct{ s *Store }

func (r motorcycleRepo) Create(_ context.Context, motorcycle *model.Motorcycle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.motorcycles {
		if existing.SKU == motorcycle.SKU {
			return repository.ErrDuplicate
		}
	}
	stamp(&motorcycle.BaseModel, r.s.now())
	r.s.motorcycles[motorcycle.ID] = *motorcycle
	return nil
}

func (r motorcycleRepo) FindAll(_ context.Context) ([]model.Motorcycle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Motorcycle, 0, len(r.s.motorcycles))
	for _, m := range r.s.motorcycles {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b model.Motorcycle) int {
		return strings.Compare(a.Brand+" "+a.Model, b.Brand+" "+b.Model)
	})
	return out, nil
}

func (r motorcycleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Motorcycle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.motorcycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r motorcycleRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Motorcycle, error) {
	return r.FindByID(ctx, id)
}

func (r motorcycleRepo) Update(_ context.Context, motorcycle *model.Motorcycle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.motorcycles[motorcycle.ID]; !ok {
		return repository.ErrNotFound
	}
	motorcycle.UpdatedAt = r.s.now()
	r.s.motorcycles[motorcycle.ID] = *motorcycle
	return nil
}

func (r motorcycleRepo) UpdateStock(_ context.Context, id uuid.UUID, newStock int, updatedBy string) error {
	if err := r.s.fail("motorcycles.update_stock"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.motorcycles[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.StockQuantity = newStock
	m.UpdatedBy = updatedBy
	m.UpdatedByUserID = &updatedBy
	m.UpdatedAt = r.s.now()
	r.s.motorcycles[id] = m
	return nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, movement *model.StockMovement) error {
	if err := r.s.fail("movements.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stampRow(&movement.RowModel, r.s.now())
	stored := *movement
	stored.Product = nil
	r.s.movements = append(r.s.movements, stored)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			out = append(out, r.s.movements[i])
		}
	}
	return out, nil
}

func (r movementRepo) ListBySale(_ context.Context, saleID uuid.UUID) ([]model.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.StockMovement
	for _, m := range r.s.movements {
		if m.SaleID != nil && *m.SaleID == saleID {
			if p, ok := r.s.products[m.ProductID]; ok {
				m.Product = &p
			}
			out = append(out, m)
		}
	}
	return out, nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Create(_ context.Context, activity *model.Activity) error {
	if err := r.s.fail("activities.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stampRow(&activity.RowModel, r.s.now())
	r.s.activities = append(r.s.activities, *activity)
	return nil
}

func (r activityRepo) ListByEntity(_ context.Context, entityType model.EntityType, entityID uuid.UUID) ([]model.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Activity
	for _, a := range r.s.activities {
		if a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}
