package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/ws"
)

func TestCreateDraft(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	p2 := f.product(t, "Spark plug", 10, "20")

	d := f.retailDraft(t, productLine(p1, 2, "100"), productLine(p2, 3, "20"))

	assert.Equal(t, model.DraftStatusCreated, d.Status)
	assert.Equal(t, cashier.ID, d.CreatedByUserID)
	requireDec(t, "260", d.Total)
	require.Len(t, d.Items, 2)
	assert.Equal(t, "Oil filter", d.Items[0].Description)
	assert.Equal(t, model.ItemKindProduct, d.Items[0].Kind)
	assert.Equal(t, 1, d.Items[1].SortOrder)
	assert.Contains(t, f.notifier.types(), ws.EventDraftChanged)
}

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	missing := uuid.New()

	tests := []struct {
		name string
		in   DraftInput
		want error
	}{
		{
			name: "unknown type",
			in:   DraftInput{Type: "LAYAWAY", Items: []DraftItemInput{productLine(p1, 1, "100")}},
			want: ErrValidation,
		},
		{
			name: "zero quantity",
			in:   DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{productLine(p1, 0, "100")}},
			want: ErrValidation,
		},
		{
			name: "negative price",
			in:   DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{productLine(p1, 1, "-5")}},
			want: ErrValidation,
		},
		{
			name: "tax rate above one",
			in: DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{{
				ProductID: &p1.ID, Quantity: 1, UnitPrice: dec("10"), TaxRate: dec("1.5"),
			}}},
			want: ErrValidation,
		},
		{
			name: "no reference",
			in:   DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{{Quantity: 1, UnitPrice: dec("10")}}},
			want: ErrValidation,
		},
		{
			name: "product and motorcycle",
			in: DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{{
				ProductID: &p1.ID, MotorcycleID: &missing, Quantity: 1, UnitPrice: dec("10"),
			}}},
			want: ErrValidation,
		},
		{
			name: "unknown product",
			in:   DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{{ProductID: &missing, Quantity: 1}}},
			want: ErrProductNotFound,
		},
		{
			name: "unknown motorcycle",
			in:   DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{{MotorcycleID: &missing, Quantity: 1}}},
			want: ErrMotorcycleNotFound,
		},
		{
			name: "unknown customer",
			in:   DraftInput{Type: model.DraftTypeWholesale, CustomerID: &missing},
			want: ErrCustomerNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.drafts.Create(f.ctx, tt.in, cashier)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateDraftFromLegacyMotorcycleNote(t *testing.T) {
	f := newFixture(t)
	m := f.motorcycle(t, "CG125", 2, "1150")

	d := f.retailDraft(t, DraftItemInput{
		Quantity:  1,
		UnitPrice: dec("1150"),
		Notes:     model.MotorcycleNote(m.ID) + " red, with helmet",
	})

	require.Len(t, d.Items, 1)
	assert.Equal(t, model.ItemKindMotorcycle, d.Items[0].Kind)
	assert.Equal(t, m.ID, *d.Items[0].MotorcycleID)
	assert.Nil(t, d.Items[0].ProductID)
}

func TestUpdateDraftReplacesItems(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	p2 := f.product(t, "Spark plug", 10, "20")
	d := f.retailDraft(t, productLine(p1, 2, "100"))

	updated, err := f.drafts.Update(f.ctx, d.ID, DraftInput{
		Type:  model.DraftTypeRetail,
		Items: []DraftItemInput{productLine(p2, 5, "20")},
		Notes: "changed",
	}, cashier)
	require.NoError(t, err)
	requireDec(t, "100", updated.Total)

	stored, err := f.drafts.GetByID(f.ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, p2.ID, *stored.Items[0].ProductID)
	assert.Equal(t, "changed", stored.Notes)
	requireDec(t, "100", stored.Total)
}

func TestDraftOwnership(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	d := f.retailDraft(t, productLine(p1, 2, "100"))

	_, err := f.drafts.Update(f.ctx, d.ID, DraftInput{Type: model.DraftTypeRetail}, other)
	require.ErrorIs(t, err, ErrNotDraftOwner)

	_, err = f.drafts.Cancel(f.ctx, d.ID, other)
	require.ErrorIs(t, err, ErrNotDraftOwner)

	_, err = f.drafts.UpdateStatus(f.ctx, d.ID, model.DraftStatusReady, other)
	require.ErrorIs(t, err, ErrNotDraftOwner)
}

func TestDraftStatusTransitions(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	d := f.retailDraft(t, productLine(p1, 2, "100"))

	ready, err := f.drafts.UpdateStatus(f.ctx, d.ID, model.DraftStatusReady, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.DraftStatusReady, ready.Status)

	_, err = f.drafts.UpdateStatus(f.ctx, d.ID, model.DraftStatusFinalized, cashier)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)

	cancelled, err := f.drafts.Cancel(f.ctx, d.ID, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.DraftStatusCancelled, cancelled.Status)

	_, err = f.drafts.UpdateStatus(f.ctx, d.ID, model.DraftStatusCreated, cashier)
	require.ErrorIs(t, err, ErrDraftNotOpen)

	_, err = f.drafts.Update(f.ctx, d.ID, DraftInput{Type: model.DraftTypeRetail}, cashier)
	require.ErrorIs(t, err, ErrDraftNotOpen)

	stored, err := f.store.Products().FindByID(f.ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.StockQuantity)
}

func TestReadyDraftCanBeFinalized(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	d := f.retailDraft(t, productLine(p1, 2, "100"))

	_, err := f.drafts.UpdateStatus(f.ctx, d.ID, model.DraftStatusReady, cashier)
	require.NoError(t, err)

	_, err = f.drafts.Finalize(f.ctx, d.ID, FinalizeInput{}, cashier)
	require.NoError(t, err)
}

func TestListDraftsShowsOwnDrafts(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Oil filter", 10, "100")
	mine := f.retailDraft(t, productLine(p1, 1, "100"))
	_, err := f.drafts.Create(f.ctx, DraftInput{Type: model.DraftTypeRetail, Items: []DraftItemInput{productLine(p1, 1, "100")}}, other)
	require.NoError(t, err)
	ready := f.retailDraft(t, productLine(p1, 2, "100"))
	_, err = f.drafts.UpdateStatus(f.ctx, ready.ID, model.DraftStatusReady, cashier)
	require.NoError(t, err)

	all, err := f.drafts.List(f.ctx, "", cashier)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyReady, err := f.drafts.List(f.ctx, model.DraftStatusReady, cashier)
	require.NoError(t, err)
	require.Len(t, onlyReady, 1)
	assert.Equal(t, ready.ID, onlyReady[0].ID)
	assert.NotEqual(t, mine.ID, onlyReady[0].ID)
}

func TestGetDraftNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.drafts.GetByID(f.ctx, uuid.New())
	require.ErrorIs(t, err, ErrDraftNotFound)
}
