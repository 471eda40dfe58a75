package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/application/dto"
	"github.com/jhoicas/pricing-api/internal/application/usecase"
	"github.com/jhoicas/pricing-api/internal/domain"
)

type fixedQuoter struct {
	rate     decimal.Decimal
	fallback bool
	from, to string
}

func (q *fixedQuoter) Quote(_ context.Context, amount decimal.Decimal, from, to string) currency.Conversion {
	q.from, q.to = from, to
	if q.fallback {
		return currency.Conversion{Amount: amount, Rate: decimal.NewFromInt(1), From: from, To: to, Fallback: true}
	}
	return currency.Conversion{Amount: amount.Mul(q.rate), Rate: q.rate, From: from, To: to}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func vatRequest() []dto.TaxRequest {
	return []dto.TaxRequest{{ID: "vat", Name: "VAT", Rate: dec("15")}}
}

func TestPricingUseCase_ComputeLine(t *testing.T) {
	uc := usecase.NewPricingUseCase(&fixedQuoter{})

	line, err := uc.ComputeLine(dto.ComputeLineRequest{
		PriceLineInput: dto.PriceLineInput{Quantity: dec("2"), UnitPrice: dec("100"), DiscountPercent: dec("10")},
		Taxes:          vatRequest(),
		TaxInclusive:   true,
	})
	require.NoError(t, err)
	assert.True(t, dec("207").Equal(line.LineTotal))
	assert.True(t, dec("27").Equal(line.TotalTax))
}

func TestPricingUseCase_ComputeLineSinImpuestos(t *testing.T) {
	uc := usecase.NewPricingUseCase(&fixedQuoter{})
	_, err := uc.ComputeLine(dto.ComputeLineRequest{
		PriceLineInput: dto.PriceLineInput{Quantity: dec("1"), UnitPrice: dec("1")},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPricingUseCase_ComputeTotals(t *testing.T) {
	uc := usecase.NewPricingUseCase(&fixedQuoter{})
	line := dto.PriceLineInput{Quantity: dec("2"), UnitPrice: dec("100"), DiscountPercent: dec("10")}

	res, err := uc.ComputeTotals(dto.ComputeTotalsRequest{
		Lines:    []dto.PriceLineInput{line, line},
		Taxes:    vatRequest(),
		Currency: "ghs",
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.True(t, dec("360").Equal(res.Totals.Total))
	assert.True(t, dec("414").Equal(res.Totals.AmountDue))
	require.NotNil(t, res.Formatted)
	assert.Contains(t, res.Formatted.AmountDue, "414.00")
}

func TestPricingUseCase_ComputeTotalsMonedaInvalida(t *testing.T) {
	uc := usecase.NewPricingUseCase(&fixedQuoter{})
	_, err := uc.ComputeTotals(dto.ComputeTotalsRequest{Taxes: vatRequest(), Currency: "ZZZZ"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPricingUseCase_Convert(t *testing.T) {
	q := &fixedQuoter{rate: dec("12.5")}
	uc := usecase.NewPricingUseCase(q)

	res, err := uc.Convert(context.Background(), dto.ConvertRequest{FromCurrency: "usd", ToCurrency: "GHS", Amount: dec("4")})
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(res.ConvertedAmount))
	assert.False(t, res.Fallback)
	assert.Equal(t, "USD", q.from)
	assert.Equal(t, "GHS", q.to)
}

func TestPricingUseCase_ConvertFallback(t *testing.T) {
	uc := usecase.NewPricingUseCase(&fixedQuoter{fallback: true})

	res, err := uc.Convert(context.Background(), dto.ConvertRequest{FromCurrency: "USD", ToCurrency: "GHS", Amount: dec("4")})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.True(t, dec("4").Equal(res.ConvertedAmount))

	_, err = uc.Convert(context.Background(), dto.ConvertRequest{FromCurrency: "US", ToCurrency: "GHS"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
