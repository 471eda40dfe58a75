package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
)

// TaxSet colección ordenada de impuestos de un documento. Siempre tiene al menos uno.
type TaxSet struct {
	rates []entity.TaxRate
}

// NewTaxSet construye el conjunto validando cada impuesto.
func NewTaxSet(rates ...entity.TaxRate) (*TaxSet, error) {
	if len(rates) == 0 {
		return nil, domain.NewValidationError("taxes", "se requiere al menos un impuesto")
	}
	s := &TaxSet{rates: make([]entity.TaxRate, 0, len(rates))}
	for _, r := range rates {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Rates copia de los impuestos en orden de inserción.
func (s *TaxSet) Rates() []entity.TaxRate {
	out := make([]entity.TaxRate, len(s.rates))
	copy(out, s.rates)
	return out
}

// Len cantidad de impuestos.
func (s *TaxSet) Len() int { return len(s.rates) }

// Get busca un impuesto por ID.
func (s *TaxSet) Get(id string) (entity.TaxRate, bool) {
	if i := s.index(id); i >= 0 {
		return s.rates[i], true
	}
	return entity.TaxRate{}, false
}

// Add agrega un impuesto al final.
func (s *TaxSet) Add(tax entity.TaxRate) error {
	tax.ID = strings.TrimSpace(tax.ID)
	tax.Name = strings.TrimSpace(tax.Name)
	if tax.ID == "" {
		return domain.NewValidationError("tax.id", "requerido")
	}
	if tax.Name == "" {
		return domain.NewValidationError("tax.name", "requerido")
	}
	if tax.Rate.IsNegative() {
		return domain.NewValidationError("tax.rate", "no puede ser negativa")
	}
	if s.index(tax.ID) >= 0 {
		return domain.NewValidationError("tax.id", "duplicado: "+tax.ID)
	}
	s.rates = append(s.rates, tax)
	return nil
}

// Remove elimina un impuesto. Falla sin modificar el conjunto si quedaría vacío.
func (s *TaxSet) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if len(s.rates) == 1 {
		return domain.NewValidationError("taxes", "no se puede eliminar el único impuesto")
	}
	s.rates = append(s.rates[:i:i], s.rates[i+1:]...)
	return nil
}

// UpdateRate cambia la tasa de un impuesto existente.
func (s *TaxSet) UpdateRate(id string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return domain.NewValidationError("tax.rate", "no puede ser negativa")
	}
	i := s.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.rates[i].Rate = rate
	return nil
}

func (s *TaxSet) index(id string) int {
	for i := range s.rates {
		if s.rates[i].ID == id {
			return i
		}
	}
	return -1
}
