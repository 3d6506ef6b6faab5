package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/internal/ws"
	"go-erp-sales/pkg/lock"
	"go-erp-sales/pkg/pricing"
)

const defaultInvoiceDueDays = 30

// paidTolerance absorbs sub-cent differences between amountPaid and total.
var paidTolerance = decimal.New(1, -2)

type FinalizeInput struct {
	PaymentMethod string
	AmountPaid    *decimal.Decimal
	InvoiceNumber string
	Currency      model.Currency
	Notes         string
}

type FinalizeResult struct {
	SaleID        uuid.UUID           `json:"saleId"`
	InvoiceID     uuid.UUID           `json:"invoiceId"`
	InvoiceNumber string              `json:"invoiceNumber"`
	Currency      model.Currency      `json:"currency"`
	Status        model.InvoiceStatus `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	AmountDue     decimal.Decimal     `json:"amountDue"`
	StockChanges  []StockChange       `json:"-"`
}

type PosterConfig struct {
	InvoiceDueDays int
	LockTTL        time.Duration
	Now            func() time.Time
	Numbers        *InvoiceNumberGenerator
}

// SalePoster turns an open draft into a Sale and its Invoice, moving stock and
// customer balances in the same transaction.
type SalePoster struct {
	store    repository.Store
	locker   lock.Locker
	notifier ws.Notifier
	log      *zap.Logger
	stock    *StockLedger
	balance  *BalanceLedger
	numbers  *InvoiceNumberGenerator
	now      func() time.Time
	dueDays  int
	lockTTL  time.Duration
}

func NewSalePoster(store repository.Store, locker lock.Locker, notifier ws.Notifier, log *zap.Logger, cfg PosterConfig) *SalePoster {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Numbers == nil {
		cfg.Numbers = NewInvoiceNumberGenerator(cfg.Now, nil)
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.InvoiceDueDays <= 0 {
		cfg.InvoiceDueDays = defaultInvoiceDueDays
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if notifier == nil {
		notifier = ws.NopNotifier{}
	}
	return &SalePoster{
		store:    store,
		locker:   locker,
		notifier: notifier,
		log:      log,
		stock:    NewStockLedger(),
		balance:  NewBalanceLedger(),
		numbers:  cfg.Numbers,
		now:      cfg.Now,
		dueDays:  cfg.InvoiceDueDays,
		lockTTL:  cfg.LockTTL,
	}
}

// PaymentStatus is PAID when amountPaid covers total (with a one cent
// tolerance) and PARTIALLY_PAID otherwise, zero payments included.
func PaymentStatus(amountPaid, total decimal.Decimal) model.InvoiceStatus {
	if amountPaid.Sub(total).Abs().LessThan(paidTolerance) || amountPaid.GreaterThanOrEqual(total) {
		return model.InvoiceStatusPaid
	}
	return model.InvoiceStatusPartiallyPaid
}

func (p *SalePoster) Finalize(ctx context.Context, draftID uuid.UUID, in FinalizeInput, actor Actor) (*FinalizeResult, error) {
	amountPaid := decimal.Zero
	if in.AmountPaid != nil {
		amountPaid = *in.AmountPaid
	}
	if amountPaid.IsNegative() {
		return nil, validationErrorf("amountPaid must not be negative")
	}
	if in.Currency != "" && !in.Currency.Valid() {
		return nil, validationErrorf("currency must be IQD or USD")
	}

	release, err := p.locker.Obtain(ctx, "draft-finalize:"+draftID.String(), p.lockTTL)
	if errors.Is(err, lock.ErrNotObtained) {
		return nil, ErrDraftBusy
	}
	if err != nil {
		return nil, fmt.Errorf("obtain finalize lock: %w", err)
	}
	defer func() {
		if err := release.Release(context.WithoutCancel(ctx)); err != nil {
			p.log.Warn("release finalize lock", zap.String("draft_id", draftID.String()), zap.Error(err))
		}
	}()

	var result *FinalizeResult
	var sale *model.Sale
	err = p.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		r, s, err := p.post(ctx, tx, draftID, in, amountPaid, actor)
		if err != nil {
			return err
		}
		result, sale = r, s
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.afterCommit(sale, result, actor)
	return result, nil
}

func (p *SalePoster) post(ctx context.Context, tx repository.Repositories, draftID uuid.UUID, in FinalizeInput, amountPaid decimal.Decimal, actor Actor) (*FinalizeResult, *model.Sale, error) {
	draft, err := tx.Drafts().FindByIDForUpdate(ctx, draftID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if draft.CreatedByUserID != actor.ID {
		return nil, nil, ErrNotDraftOwner
	}
	if !draft.Status.Open() {
		return nil, nil, ErrDraftNotOpen
	}
	if draft.Type == model.DraftTypeWholesale && draft.CustomerID == nil {
		return nil, nil, ErrWholesaleRequiresCustomer
	}
	if len(draft.Items) == 0 {
		return nil, nil, ErrDraftEmpty
	}

	lines := draft.Lines()
	currency := in.Currency
	if currency == "" {
		currency = model.InferCurrency(lines)
	}

	pricingLines := make([]pricing.Line, len(lines))
	for i := range lines {
		pricingLines[i] = lines[i].PricingLine()
		lines[i].Total = pricing.LineTotal(pricingLines[i])
	}
	totals := pricing.Compute(pricingLines, draft.Discount)
	amountDue := totals.Total.Sub(amountPaid)
	status := PaymentStatus(amountPaid, totals.Total)
	now := p.now()

	var customer *model.Customer
	if draft.CustomerID != nil {
		customer, err = tx.Customers().FindByIDForUpdate(ctx, *draft.CustomerID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCustomerNotFound
		}
		if err != nil {
			return nil, nil, err
		}
	}

	refs := make([]model.LineRef, len(lines))
	for i, l := range lines {
		refs[i] = l.Ref()
	}
	locked, err := p.stock.Lock(ctx, tx, refs)
	if err != nil {
		return nil, nil, err
	}

	customerName := ""
	if customer != nil {
		customerName = customer.Name
	}
	number, generated, err := p.numbers.Resolve(in.InvoiceNumber, customerName)
	if err != nil {
		return nil, nil, fmt.Errorf("generate invoice number: %w", err)
	}
	if !generated {
		taken, err := tx.Invoices().ExistsByNumber(ctx, number)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			return nil, nil, ErrInvoiceNumberTaken
		}
	}

	notes := in.Notes
	if notes == "" {
		notes = draft.Notes
	}

	sale := &model.Sale{
		Type:            draft.Type,
		CustomerID:      draft.CustomerID,
		DraftID:         &draft.ID,
		Status:          model.SaleStatusCompleted,
		Currency:        currency,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		Discount:        totals.Discount,
		Total:           totals.Total,
		PaymentMethod:   in.PaymentMethod,
		AmountPaid:      amountPaid,
		AmountDue:       amountDue,
		Notes:           notes,
		Items:           make([]model.SaleItem, len(lines)),
		CreatedByUserID: actor.ID,
	}
	sale.CreatedBy = actor.ID
	for i, l := range lines {
		sale.Items[i] = model.SaleItem{LineItem: l}
	}
	if err := tx.Sales().Create(ctx, sale); err != nil {
		return nil, nil, fmt.Errorf("create sale: %w", err)
	}

	invoice := &model.Invoice{
		InvoiceNumber:   number,
		SaleID:          &sale.ID,
		CustomerID:      draft.CustomerID,
		Status:          status,
		Currency:        currency,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		Discount:        totals.Discount,
		Total:           totals.Total,
		PaymentMethod:   in.PaymentMethod,
		AmountPaid:      amountPaid,
		AmountDue:       amountDue,
		Notes:           notes,
		DueDate:         now.AddDate(0, 0, p.dueDays),
		Items:           make([]model.InvoiceItem, len(lines)),
		CreatedByUserID: actor.ID,
	}
	invoice.CreatedBy = actor.ID
	if status == model.InvoiceStatusPaid {
		paidAt := now
		invoice.PaidAt = &paidAt
	}
	for i, l := range lines {
		invoice.Items[i] = model.InvoiceItem{LineItem: l}
	}
	if err := tx.Invoices().Create(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrInvoiceNumberTaken
		}
		return nil, nil, fmt.Errorf("create invoice: %w", err)
	}

	if customer != nil {
		if _, err := p.balance.Apply(ctx, tx, customer, BalanceAdjustment{
			Currency:  currency,
			AmountDue: amountDue,
			Paid:      status == model.InvoiceStatusPaid,
			SaleID:    &sale.ID,
			InvoiceID: &invoice.ID,
			Note:      "Invoice " + number,
			At:        now,
		}, actor); err != nil {
			return nil, nil, err
		}
	}

	ref := SaleRef{SaleID: sale.ID, InvoiceID: invoice.ID, InvoiceNumber: number}
	changes := make([]StockChange, 0, len(lines))
	for _, l := range lines {
		change, err := p.stock.Sell(ctx, tx, locked, l, ref, actor)
		if err != nil {
			return nil, nil, err
		}
		changes = append(changes, change)
	}

	draft.Status = model.DraftStatusFinalized
	draft.SaleID = &sale.ID
	draft.FinalizedAt = &now
	draft.UpdatedBy = actor.ID
	if err := tx.Drafts().Update(ctx, draft); err != nil {
		return nil, nil, fmt.Errorf("mark draft finalized: %w", err)
	}

	return &FinalizeResult{
		SaleID:        sale.ID,
		InvoiceID:     invoice.ID,
		InvoiceNumber: number,
		Currency:      currency,
		Status:        status,
		Total:         totals.Total,
		AmountDue:     amountDue,
		StockChanges:  changes,
	}, sale, nil
}

func (p *SalePoster) afterCommit(sale *model.Sale, result *FinalizeResult, actor Actor) {
	customerID := ""
	if sale.CustomerID != nil {
		customerID = sale.CustomerID.String()
	}
	p.log.Info("sale.finalized",
		zap.String("sale_id", result.SaleID.String()),
		zap.String("invoice_id", result.InvoiceID.String()),
		zap.String("invoice_number", result.InvoiceNumber),
		zap.String("draft_id", sale.DraftID.String()),
		zap.String("customer_id", customerID),
		zap.String("type", string(sale.Type)),
		zap.String("currency", string(result.Currency)),
		zap.String("total", result.Total.StringFixed(2)),
		zap.String("amount_due", result.AmountDue.StringFixed(2)),
		zap.String("status", string(result.Status)),
		zap.Int("items", len(sale.Items)),
		zap.String("user_id", actor.ID),
	)

	p.notifier.Publish(ws.EventSaleFinalized, map[string]any{
		"sale_id":        result.SaleID,
		"invoice_id":     result.InvoiceID,
		"invoice_number": result.InvoiceNumber,
		"currency":       result.Currency,
		"total":          result.Total,
		"status":         result.Status,
		"user":           map[string]any{"id": actor.ID, "name": actor.Name},
		"message":        fmt.Sprintf("%s finalized invoice %s", actor.label(), result.InvoiceNumber),
	})
	for _, c := range result.StockChanges {
		if c.LowStock() {
			p.notifier.Publish(ws.EventLowStock, c)
		}
	}
}
