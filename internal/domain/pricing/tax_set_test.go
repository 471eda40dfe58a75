package pricing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/pricing"
)

func TestNewTaxSet_RequiereAlMenosUno(t *testing.T) {
	_, err := pricing.NewTaxSet()
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTaxSet_RemoveUnicoFalla(t *testing.T) {
	set, err := pricing.NewTaxSet(vat("15"))
	require.NoError(t, err)

	err = set.Remove("vat")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, 1, set.Len(), "el conjunto no debe cambiar")
	got, ok := set.Get("vat")
	require.True(t, ok)
	assertDec(t, "15", got.Rate)
}

func TestTaxSet_AddRemoveConservaOrden(t *testing.T) {
	set, err := pricing.NewTaxSet(vat("15"))
	require.NoError(t, err)
	require.NoError(t, set.Add(entity.TaxRate{ID: "nhil", Name: "NHIL", Rate: dec("2.5")}))
	require.NoError(t, set.Add(entity.TaxRate{ID: "covid", Name: "COVID levy", Rate: dec("1")}))

	require.NoError(t, set.Remove("nhil"))
	rates := set.Rates()
	require.Len(t, rates, 2)
	assert.Equal(t, "vat", rates[0].ID)
	assert.Equal(t, "covid", rates[1].ID)
}

func TestTaxSet_Validaciones(t *testing.T) {
	set, err := pricing.NewTaxSet(vat("15"))
	require.NoError(t, err)

	assert.True(t, errors.Is(set.Add(vat("5")), domain.ErrValidation), "ID duplicado")
	assert.True(t, errors.Is(set.Add(entity.TaxRate{ID: "x", Name: "X", Rate: dec("-1")}), domain.ErrValidation))
	assert.True(t, errors.Is(set.Add(entity.TaxRate{ID: "x", Rate: dec("1")}), domain.ErrValidation), "nombre requerido")
	assert.True(t, errors.Is(set.Add(entity.TaxRate{Name: "X", Rate: dec("1")}), domain.ErrValidation), "ID requerido")
	assert.True(t, errors.Is(set.UpdateRate("vat", dec("-2")), domain.ErrValidation))
	assert.True(t, errors.Is(set.UpdateRate("nope", dec("2")), domain.ErrNotFound))
	assert.True(t, errors.Is(set.Remove("nope"), domain.ErrNotFound))
}

func TestTaxSet_RatesEsCopia(t *testing.T) {
	set, err := pricing.NewTaxSet(vat("15"))
	require.NoError(t, err)

	rates := set.Rates()
	rates[0].Rate = dec("99")

	got, _ := set.Get("vat")
	assertDec(t, "15", got.Rate)
}
