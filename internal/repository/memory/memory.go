// Package memory is an in-process repository.Store used by tests and local
// demos. Transactions are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	now  func() time.Time

	drafts      map[uuid.UUID]model.Draft
	draftOrder  []uuid.UUID
	sales       map[uuid.UUID]model.Sale
	invoices    map[uuid.UUID]model.Invoice
	customers   map[uuid.UUID]model.Customer
	history     []model.CustomerBalanceHistory
	products    map[uuid.UUID]model.Product
	motorcycles map[uuid.UUID]model.Motorcycle
	movements   []model.StockMovement
	activities  []model.Activity
	users       map[uuid.UUID]model.User

	// FailOn makes the named operation return an error, for rollback tests.
	FailOn map[string]error
}

func New() *Store {
	return &Store{
		now:         time.Now,
		drafts:      make(map[uuid.UUID]model.Draft),
		sales:       make(map[uuid.UUID]model.Sale),
		invoices:    make(map[uuid.UUID]model.Invoice),
		customers:   make(map[uuid.UUID]model.Customer),
		products:    make(map[uuid.UUID]model.Product),
		motorcycles: make(map[uuid.UUID]model.Motorcycle),
		users:       make(map[uuid.UUID]model.User),
		FailOn:      make(map[string]error),
	}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

type snapshot struct {
	drafts      map[uuid.UUID]model.Draft
	draftOrder  []uuid.UUID
	sales       map[uuid.UUID]model.Sale
	invoices    map[uuid.UUID]model.Invoice
	customers   map[uuid.UUID]model.Customer
	history     []model.CustomerBalanceHistory
	products    map[uuid.UUID]model.Product
	motorcycles map[uuid.UUID]model.Motorcycle
	movements   []model.StockMovement
	activities  []model.Activity
}

// Stored values are never mutated in place, so shallow copies are enough.
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		drafts:      maps.Clone(s.drafts),
		draftOrder:  slices.Clone(s.draftOrder),
		sales:       maps.Clone(s.sales),
		invoices:    maps.Clone(s.invoices),
		customers:   maps.Clone(s.customers),
		history:     slices.Clone(s.history),
		products:    maps.Clone(s.products),
		motorcycles: maps.Clone(s.motorcycles),
		movements:   slices.Clone(s.movements),
		activities:  slices.Clone(s.activities),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = snap.drafts
	s.draftOrder = snap.draftOrder
	s.sales = snap.sales
	s.invoices = snap.invoices
	s.customers = snap.customers
	s.history = snap.history
	s.products = snap.products
	s.motorcycles = snap.motorcycles
	s.movements = snap.movements
	s.activities = snap.activities
}

// WithinTransaction runs fn with exclusive access to the store. An error or
// panic from fn restores the state seen on entry.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
	}()

	if err := fn(ctx, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok && err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Drafts() repository.DraftRepository { return draftRepo{s} }
func (s *Store) Sales() repository.SaleRepository { return saleRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository { return invoiceRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }
func (s *Store) BalanceHistory() repository.BalanceHistoryRepository { return historyRepo{s} }
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }
func (s *Store) Motorcycles() repository.MotorcycleRepository { return motorcycleRepo{s} }
func (s *Store) StockMovements() repository.StockMovementRepository { return movementRepo{s} }
func (s *Store) Activities() repository.ActivityRepository { return activityRepo{s} }
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func stamp(base *model.BaseModel, now time.Time) {
	base.ID = newID(base.ID)
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func stampRow(row *model.RowModel, now time.Time) {
	row.ID = newID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
}

func sortedBySortOrder[T any](items []T, order func(T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int { return order(a) - order(b) })
	return out
}
