package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want string
	}{
		{
			name: "plain quantity times price",
			line: Line{Quantity: 3, UnitPrice: dec("100")},
			want: "300",
		},
		{
			name: "discount before tax",
			line: Line{Quantity: 2, UnitPrice: dec("50"), Discount: dec("10"), TaxRate: dec("0.1")},
			want: "99",
		},
		{
			name: "rounds to two places",
			line: Line{Quantity: 1, UnitPrice: dec("10.005"), TaxRate: dec("0")},
			want: "10.01",
		},
		{
			name: "fractional tax rounds half away from zero",
			line: Line{Quantity: 3, UnitPrice: dec("3.33"), TaxRate: dec("0.15")},
			want: "11.49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.line)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestCompute(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: dec("50"), Discount: dec("10"), TaxRate: dec("0.1")},
		{Quantity: 1, UnitPrice: dec("200")},
	}

	totals := Compute(lines, dec("5"))

	assert.True(t, totals.Subtotal.Equal(dec("300")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(dec("9")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.Discount.Equal(dec("5")))
	assert.True(t, totals.Total.Equal(dec("294")), "total %s", totals.Total)
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []Line{
		{Quantity: 7, UnitPrice: dec("1.37"), Discount: dec("0.5"), TaxRate: dec("0.05")},
		{Quantity: 4, UnitPrice: dec("12.99"), TaxRate: dec("0.2")},
	}

	first := Compute(lines, decimal.Zero)
	second := Compute(lines, decimal.Zero)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
}

func TestComputeEmpty(t *testing.T) {
	totals := Compute(nil, decimal.Zero)
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Subtotal.IsZero())
}
