package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

func TestBalanceLedgerKeepsCurrenciesApart(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, "Karwan", "500")
	ledger := NewBalanceLedger()
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	apply := func(adj BalanceAdjustment) *model.CustomerBalanceHistory {
		var entry *model.CustomerBalanceHistory
		err := f.store.WithinTransaction(f.ctx, func(ctx context.Context, tx repository.Repositories) error {
			locked, err := tx.Customers().FindByIDForUpdate(ctx, c.ID)
			if err != nil {
				return err
			}
			entry, err = ledger.Apply(ctx, tx, locked, adj, cashier)
			return err
		})
		require.NoError(t, err)
		return entry
	}

	usd := apply(BalanceAdjustment{Currency: model.CurrencyUSD, AmountDue: dec("250"), At: at})
	requireDec(t, "250", usd.DebtAfter)
	requireDec(t, "500", usd.BalanceAfter)

	iqd := apply(BalanceAdjustment{Currency: model.CurrencyIQD, AmountDue: dec("-100"), At: at})
	requireDec(t, "400", iqd.DebtAfter)
	requireDec(t, "400", iqd.BalanceAfter)

	stored, err := f.store.Customers().FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	requireDec(t, "400", stored.DebtIQD)
	requireDec(t, "250", stored.DebtUSD)
	requireDec(t, "400", stored.CurrentBalance)
	require.NotNil(t, stored.LastPaymentDate)
	assert.Equal(t, at, *stored.LastPaymentDate)
}

func TestBalanceLedgerRejectsUnknownCurrency(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, "Karwan", "0")

	err := f.store.WithinTransaction(f.ctx, func(ctx context.Context, tx repository.Repositories) error {
		_, err := NewBalanceLedger().Apply(ctx, tx, c, BalanceAdjustment{Currency: "EUR", AmountDue: dec("1")}, cashier)
		return err
	})
	require.ErrorIs(t, err, ErrValidation)
}
