package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"
	"time"
)

const (
	invoiceTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	invoiceTokenLength   = 6
	invoiceFallbackName  = "INVOICE"
)

// InvoiceNumberGenerator builds "<name>-<YYYY-MM-DD>-<TOKEN>" numbers. The
// token is not checked against existing invoices; the unique index on
// invoice_number is the only guard.
type InvoiceNumberGenerator struct {
	now    func() time.Time
	random io.Reader
}

func NewInvoiceNumberGenerator(now func() time.Time, random io.Reader) *InvoiceNumberGenerator {
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = rand.Reader
	}
	return &InvoiceNumberGenerator{now: now, random: random}
}

// Resolve returns the caller's number unchanged when one is given, otherwise a
// fresh one. A blank supplied number counts as absent.
func (g *InvoiceNumberGenerator) Resolve(supplied, customerName string) (number string, generated bool, err error) {
	if strings.TrimSpace(supplied) != "" {
		return supplied, false, nil
	}
	number, err = g.Generate(customerName)
	return number, true, err
}

func (g *InvoiceNumberGenerator) Generate(customerName string) (string, error) {
	prefix := strings.TrimSpace(customerName)
	if prefix == "" {
		prefix = invoiceFallbackName
	}
	token, err := g.token()
	if err != nil {
		return "", err
	}
	return prefix + "-" + g.now().UTC().Format("2006-01-02") + "-" + token, nil
}

func (g *InvoiceNumberGenerator) token() (string, error) {
	base := big.NewInt(int64(len(invoiceTokenAlphabet)))
	var b strings.Builder
	b.Grow(invoiceTokenLength)
	for i := 0; i < invoiceTokenLength; i++ {
		n, err := rand.Int(g.random, base)
		if err != nil {
			return "", err
		}
		b.WriteByte(invoiceTokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}
