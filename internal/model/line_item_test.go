package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineRef(t *testing.T) {
	productID := uuid.New()
	motoID := uuid.New()

	t.Run("product line", func(t *testing.T) {
		ref, err := ParseLineRef(&productID, "blue one")
		require.NoError(t, err)
		assert.Equal(t, ItemKindProduct, ref.Kind)
		assert.Equal(t, productID, ref.EntityID())
		assert.Nil(t, ref.MotorcycleID)
	})

	t.Run("motorcycle marker", func(t *testing.T) {
		ref, err := ParseLineRef(nil, "MOTORCYCLE:"+motoID.String())
		require.NoError(t, err)
		assert.Equal(t, ItemKindMotorcycle, ref.Kind)
		assert.Equal(t, motoID, ref.EntityID())
	})

	t.Run("marker followed by free text", func(t *testing.T) {
		ref, err := ParseLineRef(nil, MotorcycleNote(motoID)+" red, with helmet")
		require.NoError(t, err)
		assert.Equal(t, motoID, *ref.MotorcycleID)
	})

	t.Run("marker is case sensitive", func(t *testing.T) {
		_, err := ParseLineRef(nil, "motorcycle:"+motoID.String())
		assert.ErrorIs(t, err, ErrInvalidLineRef)
	})

	t.Run("marker must be a prefix", func(t *testing.T) {
		ref, err := ParseLineRef(&productID, "see MOTORCYCLE:"+motoID.String())
		require.NoError(t, err)
		assert.Equal(t, ItemKindProduct, ref.Kind)
	})

	t.Run("both references", func(t *testing.T) {
		_, err := ParseLineRef(&productID, MotorcycleNote(motoID))
		assert.ErrorIs(t, err, ErrAmbiguousLineRef)
	})

	t.Run("nothing referenced", func(t *testing.T) {
		_, err := ParseLineRef(nil, "")
		assert.ErrorIs(t, err, ErrInvalidLineRef)
	})

	t.Run("bad motorcycle id", func(t *testing.T) {
		_, err := ParseLineRef(nil, "MOTORCYCLE:not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidLineRef)
	})
}

func TestInferCurrency(t *testing.T) {
	p := uuid.New()
	m := uuid.New()

	productOnly := []LineItem{{Kind: ItemKindProduct, ProductID: &p}}
	mixed := []LineItem{
		{Kind: ItemKindProduct, ProductID: &p},
		{Kind: ItemKindMotorcycle, MotorcycleID: &m},
	}

	assert.Equal(t, CurrencyIQD, InferCurrency(productOnly))
	assert.Equal(t, CurrencyUSD, InferCurrency(mixed))
	assert.Equal(t, CurrencyIQD, InferCurrency(nil))
}
