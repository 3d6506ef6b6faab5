package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

// BalanceAdjustment is one posting against a customer account. AmountDue may
// be negative (overpayment) and is applied as is.
type BalanceAdjustment struct {
	Currency  model.Currency
	AmountDue decimal.Decimal
	Paid      bool
	SaleID    *uuid.UUID
	InvoiceID *uuid.UUID
	Note      string
	At        time.Time
}

// BalanceLedger keeps IQD and USD debts apart: IQD moves debtIqd together with
// currentBalance, USD moves debtUsd alone.
type BalanceLedger struct{}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{}
}

// Apply mutates the locked customer row and appends a history entry. The
// caller must hold the row lock from FindByIDForUpdate on tx.
func (l *BalanceLedger) Apply(ctx context.Context, tx repository.Repositories, customer *model.Customer, adj BalanceAdjustment, actor Actor) (*model.CustomerBalanceHistory, error) {
	var debtAfter decimal.Decimal
	switch adj.Currency {
	case model.CurrencyIQD:
		customer.DebtIQD = customer.DebtIQD.Add(adj.AmountDue)
		customer.CurrentBalance = customer.CurrentBalance.Add(adj.AmountDue)
		debtAfter = customer.DebtIQD
	case model.CurrencyUSD:
		customer.DebtUSD = customer.DebtUSD.Add(adj.AmountDue)
		debtAfter = customer.DebtUSD
	default:
		return nil, validationErrorf("unsupported currency %q", adj.Currency)
	}

	if adj.Paid || adj.AmountDue.LessThanOrEqual(decimal.Zero) {
		at := adj.At
		customer.LastPaymentDate = &at
	}
	customer.UpdatedBy = actor.ID

	if err := tx.Customers().Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer balance: %w", err)
	}

	entry := &model.CustomerBalanceHistory{
		CustomerID:      customer.ID,
		SaleID:          adj.SaleID,
		InvoiceID:       adj.InvoiceID,
		Currency:        adj.Currency,
		Amount:          adj.AmountDue,
		DebtAfter:       debtAfter,
		BalanceAfter:    customer.CurrentBalance,
		Note:            adj.Note,
		CreatedByUserID: actor.ID,
	}
	if err := tx.BalanceHistory().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append balance history: %w", err)
	}
	return entry, nil
}
