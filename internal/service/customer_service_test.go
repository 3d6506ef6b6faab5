package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "0750 123 4567", want: "+9647501234567"},
		{in: "+964 770 123 4567", want: "+9647701234567"},
		{in: "not a phone", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateCustomer(t *testing.T) {
	f := newFixture(t)

	c, err := f.customers.Create(f.ctx, CustomerInput{Name: " Karwan ", SKU: "1001", Phone: "0750 123 4567"}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "Karwan", c.Name)
	assert.Equal(t, "+9647501234567", c.Phone)
	requireDec(t, "0", c.DebtIQD)

	_, err = f.customers.Create(f.ctx, CustomerInput{Name: "Other", SKU: "1001"}, cashier)
	require.ErrorIs(t, err, ErrSKUTaken)

	_, err = f.customers.Create(f.ctx, CustomerInput{Name: "Letters", SKU: "AB12"}, cashier)
	require.ErrorIs(t, err, ErrValidation)

	got, err := f.customers.GetByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = f.customers.GetByID(f.ctx, uuid.New())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerBalanceHistory(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Chain", 10, "50")
	c := f.customer(t, "Karwan", "0")

	for i := 0; i < 2; i++ {
		d := f.draft(t, DraftInput{Type: "WHOLESALE", CustomerID: &c.ID, Items: []DraftItemInput{productLine(p, 1, "50")}})
		_, err := f.drafts.Finalize(f.ctx, d.ID, FinalizeInput{}, cashier)
		require.NoError(t, err)
	}

	history, err := f.customers.BalanceHistory(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	requireDec(t, "100", history[0].DebtAfter)
	requireDec(t, "50", history[1].DebtAfter)

	_, err = f.customers.BalanceHistory(f.ctx, uuid.New())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}
