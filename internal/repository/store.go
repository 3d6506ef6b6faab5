package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories that take part in a sale posting.
// Inside WithinTransaction every repository shares the same transaction.
type Repositories interface {
	Drafts() DraftRepository
	Sales() SaleRepository
	Invoices() InvoiceRepository
	Customers() CustomerRepository
	BalanceHistory() BalanceHistoryRepository
	Products() ProductRepository
	Motorcycles() MotorcycleRepository
	StockMovements() StockMovementRepository
	Activities() ActivityRepository
}

// Store is the injected persistence boundary. Anything fn returns as an error
// rolls back every write made through the Repositories it received.
type Store interface {
	Repositories
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}

type repositories struct {
	drafts      DraftRepository
	sales       SaleRepository
	invoices    InvoiceRepository
	customers   CustomerRepository
	history     BalanceHistoryRepository
	products    ProductRepository
	motorcycles MotorcycleRepository
	movements   StockMovementRepository
	activities  ActivityRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		drafts:      NewDraftRepo(db),
		sales:       NewSaleRepo(db),
		invoices:    NewInvoiceRepo(db),
		customers:   NewCustomerRepo(db),
		history:     NewBalanceHistoryRepo(db),
		products:    NewProductRepo(db),
		motorcycles: NewMotorcycleRepo(db),
		movements:   NewStockMovementRepo(db),
		activities:  NewActivityRepo(db),
	}
}

func (r *repositories) Drafts() DraftRepository { return r.drafts }
func (r *repositories) Sales() SaleRepository { return r.sales }
func (r *repositories) Invoices() InvoiceRepository { return r.invoices }
func (r *repositories) Customers() CustomerRepository { return r.customers }
func (r *repositories) BalanceHistory() BalanceHistoryRepository { return r.history }
func (r *repositories) Products() ProductRepository { return r.products }
func (r *repositories) Motorcycles() MotorcycleRepository { return r.motorcycles }
func (r *repositories) StockMovements() StockMovementRepository { return r.movements }
func (r *repositories) Activities() ActivityRepository { return r.activities }

type gormStore struct {
	*repositories
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{repositories: newRepositories(db), db: db}
}

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newRepositories(tx))
	})
}
