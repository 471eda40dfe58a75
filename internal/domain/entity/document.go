package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento comercial.
type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindQuotation
}

// ReferencePrefix prefijo del consecutivo (INV-000001, QT-000001).
func (k DocumentKind) ReferencePrefix() string {
	if k == KindQuotation {
		return "QT"
	}
	return "INV"
}

// TaxTotal suma de un tipo de impuesto sobre todas las líneas.
type TaxTotal struct {
	TaxID  string          `json:"tax_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DocumentTotals cifras agregadas de un documento.
// Total sigue el modo del documento; AmountDue = Subtotal + TotalTax en ambos modos.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Taxes         []TaxTotal      `json:"taxes"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	Total         decimal.Decimal `json:"total"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

// TaxesByType devuelve los impuestos agregados indexados por TaxID.
func (t DocumentTotals) TaxesByType() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.Taxes))
	for _, tt := range t.Taxes {
		out[tt.TaxID] = tt.Amount
	}
	return out
}

// Document cabecera de una factura o cotización. Es dueña exclusiva de sus líneas;
// los impuestos se comparten por referencia entre todas las líneas.
type Document struct {
	ID           string
	CompanyID    string
	Kind         DocumentKind
	Reference    string
	Currency     string
	TaxInclusive bool
	Taxes        []TaxRate
	Lines        []LineItem
	Totals       DocumentTotals
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LineIndex posición de la línea con ese ID, o -1.
func (d *Document) LineIndex(lineID string) int {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
