// Package export renders invoices as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"go-erp-sales/internal/model"
)

const (
	invoiceSheet = "Invoice"
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var itemHeadings = []string{"#", "Description", "Kind", "Quantity", "Unit Price", "Discount", "Tax Rate", "Total"}

// Filename is the attachment name used for an invoice download.
func Filename(inv *model.Invoice) string {
	return "invoice-" + inv.InvoiceNumber + ".xlsx"
}

// InvoiceWorkbook lays out the header block, one row per item in display
// order, then the totals block.
func InvoiceWorkbook(inv *model.Invoice) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		f.Close()
		return nil, err
	}

	customer := ""
	if inv.Customer != nil {
		customer = inv.Customer.Name
	}
	header := [][2]any{
		{"Invoice Number", inv.InvoiceNumber},
		{"Status", string(inv.Status)},
		{"Currency", string(inv.Currency)},
		{"Customer", customer},
		{"Issued", inv.CreatedAt.Format("2006-01-02")},
		{"Due", inv.DueDate.Format("2006-01-02")},
		{"Payment Method", inv.PaymentMethod},
	}
	row := 1
	for _, h := range header {
		if err := setRow(f, row, h[0], h[1]); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	row++
	headings := make([]any, len(itemHeadings))
	for i, h := range itemHeadings {
		headings[i] = h
	}
	if err := setRow(f, row, headings...); err != nil {
		f.Close()
		return nil, err
	}
	row++

	for i, item := range inv.Items {
		if err := setRow(f, row,
			i+1,
			item.Description,
			string(item.Kind),
			item.Quantity,
			item.UnitPrice.InexactFloat64(),
			item.Discount.InexactFloat64(),
			item.TaxRate.InexactFloat64(),
			item.Total.InexactFloat64(),
		); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	row++
	totals := [][2]any{
		{"Subtotal", inv.Subtotal.InexactFloat64()},
		{"Tax", inv.TaxAmount.InexactFloat64()},
		{"Discount", inv.Discount.InexactFloat64()},
		{"Total", inv.Total.InexactFloat64()},
		{"Paid", inv.AmountPaid.InexactFloat64()},
		{"Due", inv.AmountDue.InexactFloat64()},
	}
	for _, t := range totals {
		if err := setRow(f, row, t[0], t[1]); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	return f, nil
}

// WriteInvoice streams the workbook to w.
func WriteInvoice(w io.Writer, inv *model.Invoice) error {
	f, err := InvoiceWorkbook(inv)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func setRow(f *excelize.File, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(invoiceSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
