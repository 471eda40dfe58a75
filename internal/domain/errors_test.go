package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pricing-api/internal/domain"
)

func TestValidationError_IsErrValidation(t *testing.T) {
	err := domain.NewValidationError("quantity", "no puede ser negativa")
	wrapped := fmt.Errorf("agregar línea: %w", err)

	assert.True(t, errors.Is(wrapped, domain.ErrValidation))
	assert.False(t, errors.Is(wrapped, domain.ErrNotFound))
	assert.Equal(t, "quantity: no puede ser negativa", err.Error())

	var ve *domain.ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "quantity", ve.Field)
}
