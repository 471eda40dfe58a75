package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// LineInput datos de entrada de una línea. DiscountPercent ya debe venir acotado a [0,100].
type LineInput struct {
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// ComputeLine calcula una línea (servicio de dominio, función pura):
//
//	subtotal      = cantidad * precio
//	descuento     = subtotal * descuento% / 100
//	baseGravable  = subtotal - descuento
//	impuesto[i]   = baseGravable * tasa[i] / 100
//	total         = incluido ? baseGravable + Σimpuesto : baseGravable
//
// Los importes intermedios se calculan sin redondear; cada salida se redondea una sola vez a 2 decimales.
func ComputeLine(in LineInput, taxes []entity.TaxRate, taxInclusive bool) entity.LineItem {
	line := entity.LineItem{
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
	}
	applyLine(&line, taxes, taxInclusive)
	return line
}

// lineBase devuelve subtotal, descuento y base gravable exactos de una línea.
func lineBase(quantity, unitPrice, discountPercent decimal.Decimal) (subtotal, discount, afterDiscount decimal.Decimal) {
	subtotal = quantity.Mul(unitPrice)
	discount = subtotal.Mul(discountPercent).Div(hundred)
	return subtotal, discount, subtotal.Sub(discount)
}

// applyLine recalcula los campos derivados de la línea conservando su identidad.
func applyLine(line *entity.LineItem, taxes []entity.TaxRate, taxInclusive bool) {
	subtotal, discount, afterDiscount := lineBase(line.Quantity, line.UnitPrice, line.DiscountPercent)

	lineTaxes := make([]entity.LineTax, 0, len(taxes))
	totalTax := decimal.Zero
	for _, t := range taxes {
		amount := afterDiscount.Mul(t.Rate).Div(hundred)
		lineTaxes = append(lineTaxes, entity.LineTax{
			TaxID:  t.ID,
			Name:   t.Name,
			Rate:   t.Rate,
			Amount: money.Round(amount),
		})
		totalTax = totalTax.Add(amount)
	}

	line.Subtotal = money.Round(subtotal)
	line.DiscountAmount = money.Round(discount)
	line.AfterDiscount = money.Round(afterDiscount)
	line.Taxes = lineTaxes
	line.TotalTax = money.Round(totalTax)
	if taxInclusive {
		line.LineTotal = money.Round(afterDiscount.Add(totalTax))
	} else {
		line.LineTotal = money.Round(afterDiscount)
	}
}

// ClampDiscount acota un porcentaje de descuento a [0,100].
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
