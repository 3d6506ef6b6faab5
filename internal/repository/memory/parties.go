package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, customer *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.customers {
		if existing.SKU == customer.SKU {
			return repository.ErrDuplicate
		}
	}
	stamp(&customer.BaseModel, r.s.now())
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r customerRepo) FindAll(_ context.Context) ([]model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Customer) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r customerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r customerRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r customerRepo) FindBySKU(_ context.Context, sku string) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.customers {
		if c.SKU == sku {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r customerRepo) Update(_ context.Context, customer *model.Customer) error {
	if err := r.s.fail("customers.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	customer.UpdatedAt = r.s.now()
	r.s.customers[customer.ID] = *customer
	return nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Append(_ context.Context, entry *model.CustomerBalanceHistory) error {
	if err := r.s.fail("history.append"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stampRow(&entry.RowModel, r.s.now())
	r.s.history = append(r.s.history, *entry)
	return nil
}

// ListByCustomer returns newest first, like the SQL repository.
func (r historyRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.CustomerBalanceHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.CustomerBalanceHistory
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].CustomerID == customerID {
			out = append(out, r.s.history[i])
		}
	}
	return out, nil
}

type userRepo struct{ s *Store }

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	stamp(&user.BaseModel, r.s.now())
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) update(id uuid.UUID, fn func(u *model.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	r.s.users[id] = u
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.update(userID, func(u *model.User) { u.Password = hashedPassword })
}

func (r userRepo) UpdatePrivileges(_ context.Context, userID uuid.UUID, privileges []model.Privilege) error {
	return r.update(userID, func(u *model.User) { u.Privileges = slices.Clone(privileges) })
}

func (r userRepo) UpdateTokenVersion(_ context.Context, userID uuid.UUID, version string) error {
	return r.update(userID, func(u *model.User) { u.TokenVersion = version })
}
