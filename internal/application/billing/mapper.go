package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/application/dto"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
)

func toDocumentResponse(doc *entity.Document, warnings []string) *dto.DocumentResponse {
	lines := doc.Lines
	if lines == nil {
		lines = []entity.LineItem{}
	}
	return &dto.DocumentResponse{
		ID:           doc.ID,
		CompanyID:    doc.CompanyID,
		Kind:         doc.Kind,
		Reference:    doc.Reference,
		Currency:     doc.Currency,
		TaxInclusive: doc.TaxInclusive,
		Taxes:        doc.Taxes,
		Lines:        lines,
		Totals:       doc.Totals,
		Formatted:    dto.NewFormattedTotals(doc.Totals, doc.Currency),
		Warnings:     warnings,
		CreatedAt:    doc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    doc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// fallbackWarnings un aviso por par de monedas cuya tasa no estuvo disponible.
func fallbackWarnings(conversions []currency.Conversion) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range conversions {
		if !c.Fallback {
			continue
		}
		pair := c.From + "->" + c.To
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, fmt.Sprintf("tasa %s no disponible: precios en %s sin convertir", pair, c.From))
	}
	return out
}
