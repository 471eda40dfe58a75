package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/repository"
)

// DocumentTxRunner ejecuta fn dentro de una transacción con un repositorio atado a ella.
type DocumentTxRunner interface {
	RunDocuments(ctx context.Context, fn func(repo repository.DocumentRepository) error) error
}

// CurrencyNormalizer lo implementa *currency.Normalizer.
type CurrencyNormalizer interface {
	Quote(ctx context.Context, amount decimal.Decimal, from, to string) currency.Conversion
	ConvertAll(ctx context.Context, items []entity.Money, to string) []currency.Conversion
}
