package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable la tasa no se pudo obtener (red, HTTP no 2xx o cuerpo inválido).
var ErrRateUnavailable = errors.New("tasa de cambio no disponible")

// RateProvider puerto de salida hacia el servicio externo de conversión de moneda.
// Rate devuelve cuántas unidades de `to` equivalen a 1 unidad de `from`.
// El contexto debe llevar un timeout para no bloquear la edición del documento.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// RateCache caché de tasas exitosas (memoria o Redis). Nunca guarda fallbacks.
type RateCache interface {
	Get(ctx context.Context, from, to string) (decimal.Decimal, bool)
	Set(ctx context.Context, from, to string, rate decimal.Decimal)
}

// Resultados de conversión reportados al ConversionRecorder.
const (
	ConversionIdentity = "identity"
	ConversionOK       = "ok"
	ConversionCached   = "cached"
	ConversionFallback = "fallback"
)

// ConversionRecorder registra el resultado de cada conversión (métricas).
type ConversionRecorder interface {
	RecordConversion(result string)
}
