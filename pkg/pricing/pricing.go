// Package pricing turns line items into line totals and document totals.
// Every function here is pure so an invoice can be recomputed later and
// produce the same figures.
package pricing

import "github.com/shopspring/decimal"

// Line is the pricing view of a single line item.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
}

// Totals are the document-level figures derived from the lines.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Gross is unitPrice x quantity.
func Gross(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Net is the gross amount minus the line discount, before tax.
func Net(l Line) decimal.Decimal {
	return Gross(l).Sub(l.Discount)
}

// LineTotal = round2((unitPrice x quantity - discount) x (1 + taxRate)).
func LineTotal(l Line) decimal.Decimal {
	return Round2(Net(l).Mul(decimal.NewFromInt(1).Add(l.TaxRate)))
}

// Compute aggregates the lines and applies the header discount to the total.
func Compute(lines []Line, headerDiscount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	sumLines := decimal.Zero

	for _, l := range lines {
		lineTotal := LineTotal(l)
		subtotal = subtotal.Add(Gross(l))
		tax = tax.Add(lineTotal.Sub(Net(l)))
		sumLines = sumLines.Add(lineTotal)
	}

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Discount:  headerDiscount,
		Total:     sumLines.Sub(headerDiscount),
	}
}
