package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
)

// Worksheet sesión de edición de un documento: cada mutación de líneas o impuestos
// recalcula todas las líneas y los totales, de modo que el documento nunca queda desfasado.
type Worksheet struct {
	doc   *entity.Document
	taxes *TaxSet
}

// NewLine datos de una línea nueva. UnitPrice ya está en la moneda del documento.
type NewLine struct {
	ID              string
	ProductID       string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	SourcePrice     entity.Money
	DiscountPercent decimal.Decimal
}

// LinePatch cambios parciales sobre una línea existente (nil = sin cambio).
type LinePatch struct {
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	SourcePrice     *entity.Money
	DiscountPercent *decimal.Decimal
	Description     *string
}

// NewWorksheet abre una sesión sobre doc y lo deja recalculado.
func NewWorksheet(doc *entity.Document) (*Worksheet, error) {
	if doc == nil {
		return nil, domain.NewValidationError("document", "requerido")
	}
	taxes, err := NewTaxSet(doc.Taxes...)
	if err != nil {
		return nil, err
	}
	w := &Worksheet{doc: doc, taxes: taxes}
	w.Recompute()
	return w, nil
}

// Document devuelve el documento editado.
func (w *Worksheet) Document() *entity.Document { return w.doc }

// Totals totales vigentes del documento.
func (w *Worksheet) Totals() entity.DocumentTotals { return w.doc.Totals }

// Recompute recalcula todas las líneas con el conjunto de impuestos actual y luego los totales.
func (w *Worksheet) Recompute() {
	rates := w.taxes.Rates()
	w.doc.Taxes = rates
	for i := range w.doc.Lines {
		applyLine(&w.doc.Lines[i], rates, w.doc.TaxInclusive)
	}
	w.doc.Totals = Aggregate(w.doc.Lines, w.doc.TaxInclusive)
}

// AddLine agrega una línea y recalcula.
func (w *Worksheet) AddLine(in NewLine) (entity.LineItem, error) {
	if strings.TrimSpace(in.ID) == "" {
		return entity.LineItem{}, domain.NewValidationError("line.id", "requerido")
	}
	if w.doc.LineIndex(in.ID) >= 0 {
		return entity.LineItem{}, domain.NewValidationError("line.id", "duplicado: "+in.ID)
	}
	if err := validateAmounts(in.Quantity, in.UnitPrice); err != nil {
		return entity.LineItem{}, err
	}
	w.doc.Lines = append(w.doc.Lines, entity.LineItem{
		ID:              in.ID,
		ProductID:       in.ProductID,
		Description:     in.Description,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		SourcePrice:     in.SourcePrice,
		DiscountPercent: ClampDiscount(in.DiscountPercent),
	})
	w.Recompute()
	return w.doc.Lines[len(w.doc.Lines)-1], nil
}

// UpdateLine aplica un patch a la línea lineID y recalcula.
func (w *Worksheet) UpdateLine(lineID string, p LinePatch) (entity.LineItem, error) {
	i := w.doc.LineIndex(lineID)
	if i < 0 {
		return entity.LineItem{}, domain.ErrNotFound
	}
	next := w.doc.Lines[i]
	if p.Quantity != nil {
		next.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		next.UnitPrice = *p.UnitPrice
	}
	if p.SourcePrice != nil {
		next.SourcePrice = *p.SourcePrice
	}
	if p.DiscountPercent != nil {
		next.DiscountPercent = ClampDiscount(*p.DiscountPercent)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if err := validateAmounts(next.Quantity, next.UnitPrice); err != nil {
		return entity.LineItem{}, err
	}
	w.doc.Lines[i] = next
	w.Recompute()
	return w.doc.Lines[i], nil
}

// RemoveLine elimina la línea lineID y recalcula.
func (w *Worksheet) RemoveLine(lineID string) error {
	i := w.doc.LineIndex(lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	w.doc.Lines = append(w.doc.Lines[:i], w.doc.Lines[i+1:]...)
	w.Recompute()
	return nil
}

// AddTax agrega un impuesto; afecta a todas las líneas existentes.
func (w *Worksheet) AddTax(tax entity.TaxRate) error {
	if err := w.taxes.Add(tax); err != nil {
		return err
	}
	w.Recompute()
	return nil
}

// RemoveTax quita un impuesto; falla si es el último.
func (w *Worksheet) RemoveTax(taxID string) error {
	if err := w.taxes.Remove(taxID); err != nil {
		return err
	}
	w.Recompute()
	return nil
}

// UpdateTaxRate cambia una tasa y recalcula todas las líneas existentes.
func (w *Worksheet) UpdateTaxRate(taxID string, rate decimal.Decimal) error {
	if err := w.taxes.UpdateRate(taxID, rate); err != nil {
		return err
	}
	w.Recompute()
	return nil
}

// SetTaxInclusive cambia el modo de presentación del impuesto.
func (w *Worksheet) SetTaxInclusive(inclusive bool) {
	w.doc.TaxInclusive = inclusive
	w.Recompute()
}

// ChangeCurrency fija la moneda del documento junto con los precios unitarios ya convertidos,
// indexados por ID de línea. Si falta el precio de alguna línea no se modifica nada.
func (w *Worksheet) ChangeCurrency(code string, unitPrices map[string]decimal.Decimal) error {
	if strings.TrimSpace(code) == "" {
		return domain.NewValidationError("currency", "requerida")
	}
	for _, l := range w.doc.Lines {
		p, ok := unitPrices[l.ID]
		if !ok {
			return domain.NewValidationError("unit_price", "falta el precio de la línea "+l.ID)
		}
		if p.IsNegative() {
			return domain.NewValidationError("unit_price", "no puede ser negativo")
		}
	}
	for i := range w.doc.Lines {
		w.doc.Lines[i].UnitPrice = unitPrices[w.doc.Lines[i].ID]
	}
	w.doc.Currency = code
	w.Recompute()
	return nil
}

func validateAmounts(quantity, unitPrice decimal.Decimal) error {
	if quantity.IsNegative() {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if unitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	return nil
}
