package entity

import "github.com/shopspring/decimal"

// Money importe en una moneda ISO 4217.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// LineTax importe calculado de un impuesto sobre una línea.
type LineTax struct {
	TaxID  string          `json:"tax_id"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// LineItem línea de una factura o cotización.
// UnitPrice está en la moneda del documento; SourcePrice conserva el precio tal como se ingresó
// para poder reconvertir si cambia la moneda del documento.
// Los campos desde Subtotal hasta LineTotal son derivados y los recalcula pricing.ComputeLine.
type LineItem struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Description     string          `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SourcePrice     Money           `json:"source_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AfterDiscount  decimal.Decimal `json:"after_discount"`
	Taxes          []LineTax       `json:"taxes"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// TaxAmount devuelve el importe del impuesto taxID en la línea (cero si no aplica).
func (l LineItem) TaxAmount(taxID string) decimal.Decimal {
	for _, t := range l.Taxes {
		if t.TaxID == taxID {
			return t.Amount
		}
	}
	return decimal.Zero
}
