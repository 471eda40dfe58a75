package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/pkg/money"
)

// TaxRequest impuesto en el body. ID opcional: si va vacío se genera.
type TaxRequest struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// LineRequest línea nueva. Currency es la moneda de UnitPrice; vacío = moneda del documento.
type LineRequest struct {
	ProductID       string          `json:"product_id"`
	Description     string          `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Currency        string          `json:"currency,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Kind         string        `json:"kind"` // invoice | quotation
	Currency     string        `json:"currency,omitempty"`
	TaxInclusive bool          `json:"tax_inclusive"`
	Taxes        []TaxRequest  `json:"taxes"`
	Lines        []LineRequest `json:"lines,omitempty"`
}

// UpdateLineRequest body para PUT /api/documents/:id/lines/:lineId. Campos nil no cambian.
// Si UnitPrice viene, Currency indica su moneda (vacío = moneda del documento).
type UpdateLineRequest struct {
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Description     *string          `json:"description,omitempty"`
}

// UpdateTaxRateRequest body para PUT /api/documents/:id/taxes/:taxId.
type UpdateTaxRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// TaxModeRequest body para PUT /api/documents/:id/tax-mode.
type TaxModeRequest struct {
	TaxInclusive bool `json:"tax_inclusive"`
}

// ChangeCurrencyRequest body para PUT /api/documents/:id/currency.
type ChangeCurrencyRequest struct {
	Currency string `json:"currency"`
}

// FormattedTotals totales listos para mostrar en la moneda del documento.
type FormattedTotals struct {
	Subtotal      string `json:"subtotal"`
	TotalDiscount string `json:"total_discount"`
	TotalTax      string `json:"total_tax"`
	Total         string `json:"total"`
	AmountDue     string `json:"amount_due"`
}

// NewFormattedTotals formatea los totales en la moneda code.
func NewFormattedTotals(t entity.DocumentTotals, code string) FormattedTotals {
	return FormattedTotals{
		Subtotal:      money.Format(t.Subtotal, code),
		TotalDiscount: money.Format(t.TotalDiscount, code),
		TotalTax:      money.Format(t.TotalTax, code),
		Total:         money.Format(t.Total, code),
		AmountDue:     money.Format(t.AmountDue, code),
	}
}

// DocumentResponse documento completo con líneas y totales.
// Warnings informa, por ejemplo, conversiones de moneda que degradaron a tasa 1.
type DocumentResponse struct {
	ID           string                `json:"id"`
	CompanyID    string                `json:"company_id"`
	Kind         entity.DocumentKind   `json:"kind"`
	Reference    string                `json:"reference"`
	Currency     string                `json:"currency"`
	TaxInclusive bool                  `json:"tax_inclusive"`
	Taxes        []entity.TaxRate      `json:"taxes"`
	Lines        []entity.LineItem     `json:"lines"`
	Totals       entity.DocumentTotals `json:"totals"`
	Formatted    FormattedTotals       `json:"formatted"`
	Warnings     []string              `json:"warnings,omitempty"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// DocumentSummary fila de listado.
type DocumentSummary struct {
	ID           string              `json:"id"`
	Kind         entity.DocumentKind `json:"kind"`
	Reference    string              `json:"reference"`
	Currency     string              `json:"currency"`
	TaxInclusive bool                `json:"tax_inclusive"`
	Total        decimal.Decimal     `json:"total"`
	AmountDue    decimal.Decimal     `json:"amount_due"`
	UpdatedAt    string              `json:"updated_at"`
}

// DocumentListResponse listado paginado.
type DocumentListResponse struct {
	Items []DocumentSummary `json:"items"`
	Page  PageResponse      `json:"page"`
}
