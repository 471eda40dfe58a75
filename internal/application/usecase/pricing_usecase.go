package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/application/dto"
	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/pricing"
	"github.com/jhoicas/pricing-api/pkg/money"
)

// Quoter lo implementa *currency.Normalizer.
type Quoter interface {
	Quote(ctx context.Context, amount decimal.Decimal, from, to string) currency.Conversion
}

// PricingUseCase cálculos sin persistencia para previsualizar en la UI.
type PricingUseCase struct {
	quoter Quoter
}

// NewPricingUseCase construye el caso de uso.
func NewPricingUseCase(quoter Quoter) *PricingUseCase {
	return &PricingUseCase{quoter: quoter}
}

// ComputeLine calcula una línea aislada.
func (uc *PricingUseCase) ComputeLine(in dto.ComputeLineRequest) (*entity.LineItem, error) {
	ws, err := previewSheet(in.Taxes, in.TaxInclusive, "")
	if err != nil {
		return nil, err
	}
	line, err := ws.AddLine(previewLine(1, in.PriceLineInput))
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ComputeTotals calcula las líneas y los totales de un documento no guardado.
// Si viene Currency, la respuesta incluye los totales formateados.
func (uc *PricingUseCase) ComputeTotals(in dto.ComputeTotalsRequest) (*dto.ComputeTotalsResponse, error) {
	code := ""
	if strings.TrimSpace(in.Currency) != "" {
		c, err := money.NormalizeCode(in.Currency)
		if err != nil {
			return nil, domain.NewValidationError("currency", err.Error())
		}
		code = c
	}
	ws, err := previewSheet(in.Taxes, in.TaxInclusive, code)
	if err != nil {
		return nil, err
	}
	for i, l := range in.Lines {
		if _, err := ws.AddLine(previewLine(i+1, l)); err != nil {
			return nil, err
		}
	}
	doc := ws.Document()
	out := &dto.ComputeTotalsResponse{Lines: doc.Lines, Totals: doc.Totals}
	if out.Lines == nil {
		out.Lines = []entity.LineItem{}
	}
	if code != "" {
		f := dto.NewFormattedTotals(doc.Totals, code)
		out.Formatted = &f
	}
	return out, nil
}

// Convert convierte un importe. Nunca falla por el proveedor: si la tasa no está disponible
// responde el importe original con Fallback=true.
func (uc *PricingUseCase) Convert(ctx context.Context, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	from, err := money.NormalizeCode(in.FromCurrency)
	if err != nil {
		return nil, domain.NewValidationError("fromCurrency", err.Error())
	}
	to, err := money.NormalizeCode(in.ToCurrency)
	if err != nil {
		return nil, domain.NewValidationError("toCurrency", err.Error())
	}
	q := uc.quoter.Quote(ctx, in.Amount, from, to)
	return &dto.ConvertResponse{ConvertedAmount: q.Amount, Rate: q.Rate, Fallback: q.Fallback}, nil
}

func previewSheet(taxes []dto.TaxRequest, inclusive bool, code string) (*pricing.Worksheet, error) {
	rates := make([]entity.TaxRate, 0, len(taxes))
	for i, t := range taxes {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			id = fmt.Sprintf("tax-%d", i+1)
		}
		rates = append(rates, entity.TaxRate{ID: id, Name: strings.TrimSpace(t.Name), Rate: t.Rate})
	}
	return pricing.NewWorksheet(&entity.Document{Currency: code, TaxInclusive: inclusive, Taxes: rates})
}

func previewLine(n int, in dto.PriceLineInput) pricing.NewLine {
	return pricing.NewLine{
		ID:              fmt.Sprintf("line-%d", n),
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
	}
}
