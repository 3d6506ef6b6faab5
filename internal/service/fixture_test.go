package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository/memory"
	"go-erp-sales/pkg/lock"
)

var (
	cashier = Actor{ID: "user-1", Name: "Cashier One", Email: "cashier@example.com"}
	other   = Actor{ID: "user-2", Name: "Cashier Two"}
)

type published struct {
	Type string
	Data any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(eventType string, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{Type: eventType, Data: data})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (lock.Releaser, error) {
	return nil, lock.ErrNotObtained
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	notifier  *recordingNotifier
	now       time.Time
	drafts    DraftService
	inventory InventoryService
	customers CustomerService
	sales     SalesService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithLocker(t, lock.NoopLocker{})
}

func newFixtureWithLocker(t *testing.T, locker lock.Locker) *fixture {
	t.Helper()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := memory.New()
	store.SetClock(clock)
	notifier := &recordingNotifier{}
	log := zap.NewNop()

	poster := NewSalePoster(store, locker, notifier, log, PosterConfig{Now: clock})
	return &fixture{
		ctx:       context.Background(),
		store:     store,
		notifier:  notifier,
		now:       now,
		drafts:    NewDraftService(store, poster, notifier, log),
		inventory: NewInventoryService(store, notifier, log),
		customers: NewCustomerService(store, log),
		sales:     NewSalesService(store),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func (f *fixture) product(t *testing.T, name string, stock int, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:               "SKU-" + uuid.NewString()[:8],
		Name:              name,
		StockQuantity:     stock,
		LowStockThreshold: 1,
		Price:             dec(price),
	}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	return p
}

func (f *fixture) motorcycle(t *testing.T, modelName string, stock int, price string) *model.Motorcycle {
	t.Helper()
	m := &model.Motorcycle{
		SKU:               "MC-" + uuid.NewString()[:8],
		Brand:             "Honda",
		Model:             modelName,
		Year:              2024,
		StockQuantity:     stock,
		LowStockThreshold: 0,
		Price:             dec(price),
	}
	require.NoError(t, f.store.Motorcycles().Create(f.ctx, m))
	return m
}

func (f *fixture) customer(t *testing.T, name string, debtIQD string) *model.Customer {
	t.Helper()
	c := &model.Customer{
		Name:           name,
		SKU:            uuid.NewString()[:6],
		DebtIQD:        dec(debtIQD),
		CurrentBalance: dec(debtIQD),
	}
	require.NoError(t, f.store.Customers().Create(f.ctx, c))
	return c
}

func productLine(p *model.Product, qty int, unitPrice string) DraftItemInput {
	return DraftItemInput{ProductID: &p.ID, Quantity: qty, UnitPrice: dec(unitPrice)}
}

func motorcycleLine(m *model.Motorcycle, qty int, unitPrice string) DraftItemInput {
	return DraftItemInput{MotorcycleID: &m.ID, Quantity: qty, UnitPrice: dec(unitPrice)}
}

func (f *fixture) draft(t *testing.T, in DraftInput) *model.Draft {
	t.Helper()
	d, err := f.drafts.Create(f.ctx, in, cashier)
	require.NoError(t, err)
	return d
}

func (f *fixture) retailDraft(t *testing.T, items ...DraftItemInput) *model.Draft {
	return f.draft(t, DraftInput{Type: model.DraftTypeRetail, Items: items})
}
