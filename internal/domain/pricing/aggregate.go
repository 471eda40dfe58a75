package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/pkg/money"
)

// Aggregate suma las líneas de un documento. Función pura: no guarda estado.
// Subtotal y descuento se suman sin redondear desde cantidad, precio y descuento de cada línea y
// se redondean al final. Los impuestos suman los importes de cada línea y se listan en el orden en
// que aparecen por primera vez.
func Aggregate(lines []entity.LineItem, taxInclusive bool) entity.DocumentTotals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	totalTax := decimal.Zero

	taxes := make([]entity.TaxTotal, 0)
	pos := make(map[string]int)

	for _, l := range lines {
		_, d, after := lineBase(l.Quantity, l.UnitPrice, l.DiscountPercent)
		subtotal = subtotal.Add(after)
		discount = discount.Add(d)
		for _, lt := range l.Taxes {
			i, ok := pos[lt.TaxID]
			if !ok {
				i = len(taxes)
				pos[lt.TaxID] = i
				taxes = append(taxes, entity.TaxTotal{TaxID: lt.TaxID, Name: lt.Name, Amount: decimal.Zero})
			}
			taxes[i].Amount = taxes[i].Amount.Add(lt.Amount)
		}
	}
	subtotal = money.Round(subtotal)
	discount = money.Round(discount)
	for _, t := range taxes {
		totalTax = totalTax.Add(t.Amount)
	}

	totals := entity.DocumentTotals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		Taxes:         taxes,
		TotalTax:      totalTax,
		AmountDue:     subtotal.Add(totalTax),
	}
	if taxInclusive {
		totals.Total = subtotal.Add(totalTax)
	} else {
		totals.Total = subtotal
	}
	return totals
}
