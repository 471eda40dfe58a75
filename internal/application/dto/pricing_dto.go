package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain/entity"
)

// PriceLineInput línea para los endpoints de previsualización (sin persistencia).
type PriceLineInput struct {
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// ComputeLineRequest body para POST /api/pricing/lines.
type ComputeLineRequest struct {
	PriceLineInput
	Taxes        []TaxRequest `json:"taxes"`
	TaxInclusive bool         `json:"tax_inclusive"`
}

// ComputeTotalsRequest body para POST /api/pricing/totals.
type ComputeTotalsRequest struct {
	Lines        []PriceLineInput `json:"lines"`
	Taxes        []TaxRequest     `json:"taxes"`
	TaxInclusive bool             `json:"tax_inclusive"`
	Currency     string           `json:"currency,omitempty"`
}

// ComputeTotalsResponse líneas calculadas y totales.
type ComputeTotalsResponse struct {
	Lines     []entity.LineItem     `json:"lines"`
	Totals    entity.DocumentTotals `json:"totals"`
	Formatted *FormattedTotals      `json:"formatted,omitempty"`
}

// ConvertRequest body para POST /api/currency/convert (mismo contrato que el servicio externo).
type ConvertRequest struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Amount       decimal.Decimal `json:"amount"`
}

// ConvertResponse resultado de la conversión. Fallback=true: tasa no disponible, importe sin convertir.
type ConvertResponse struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
	Fallback        bool            `json:"fallback"`
}
