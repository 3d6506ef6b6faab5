package memory

import (
	"context"

	"github.com/google/uuid"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

type draftRepo struct{ s *Store }

func draftItemOrder(i model.DraftItem) int { return i.SortOrder }

func (r draftRepo) Create(_ context.Context, draft *model.Draft) error {
	if err := r.s.fail("drafts.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	stamp(&draft.BaseModel, now)
	for i := range draft.Items {
		stampRow(&draft.Items[i].RowModel, now)
		draft.Items[i].DraftID = draft.ID
	}
	stored := *draft
	stored.Items = sortedBySortOrder(draft.Items, draftItemOrder)
	stored.Customer = nil
	r.s.drafts[draft.ID] = stored
	r.s.draftOrder = append(r.s.draftOrder, draft.ID)
	return nil
}

func (r draftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Draft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	draft, ok := r.s.drafts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	draft.Items = sortedBySortOrder(draft.Items, draftItemOrder)
	return &draft, nil
}

// FindByIDForUpdate needs no row lock: transactions are already serialized.
func (r draftRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	return r.FindByID(ctx, id)
}

func (r draftRepo) Update(_ context.Context, draft *model.Draft) error {
	if err := r.s.fail("drafts.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.drafts[draft.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := *draft
	stored.Items = existing.Items
	stored.Customer = nil
	stored.UpdatedAt = r.s.now()
	draft.UpdatedAt = stored.UpdatedAt
	r.s.drafts[draft.ID] = stored
	return nil
}

func (r draftRepo) ReplaceItems(_ context.Context, draftID uuid.UUID, items []model.DraftItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	draft, ok := r.s.drafts[draftID]
	if !ok {
		return repository.ErrNotFound
	}
	now := r.s.now()
	for i := range items {
		stampRow(&items[i].RowModel, now)
		items[i].DraftID = draftID
	}
	draft.Items = sortedBySortOrder(items, draftItemOrder)
	r.s.drafts[draftID] = draft
	return nil
}

func (r draftRepo) List(_ context.Context, filter repository.DraftFilter) ([]model.Draft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Draft
	for i := len(r.s.draftOrder) - 1; i >= 0; i-- {
		draft := r.s.drafts[r.s.draftOrder[i]]
		if filter.CreatedByUserID != "" && draft.CreatedByUserID != filter.CreatedByUserID {
			continue
		}
		if filter.Status != "" && draft.Status != filter.Status {
			continue
		}
		draft.Items = sortedBySortOrder(draft.Items, draftItemOrder)
		out = append(out, draft)
	}
	return out, nil
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *model.Sale) error {
	if err := r.s.fail("sales.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	stamp(&sale.BaseModel, now)
	for i := range sale.Items {
		stampRow(&sale.Items[i].RowModel, now)
		sale.Items[i].SaleID = sale.ID
	}
	stored := *sale
	stored.Items = append([]model.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = stored
	return nil
}

func (r saleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sale.Items = sortedBySortOrder(sale.Items, func(i model.SaleItem) int { return i.SortOrder })
	return &sale, nil
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if err := r.s.fail("invoices.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	stamp(&invoice.BaseModel, now)
	for i := range invoice.Items {
		stampRow(&invoice.Items[i].RowModel, now)
		invoice.Items[i].InvoiceID = invoice.ID
	}
	stored := *invoice
	stored.Items = append([]model.InvoiceItem(nil), invoice.Items...)
	stored.Customer = nil
	r.s.invoices[invoice.ID] = stored
	return nil
}

func (r invoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	invoice, ok := r.s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	invoice.Items = sortedBySortOrder(invoice.Items, func(i model.InvoiceItem) int { return i.SortOrder })
	if invoice.CustomerID != nil {
		if c, ok := r.s.customers[*invoice.CustomerID]; ok {
			invoice.Customer = &c
		}
	}
	return &invoice, nil
}

func (r invoiceRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, invoice := range r.s.invoices {
		if invoice.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}
