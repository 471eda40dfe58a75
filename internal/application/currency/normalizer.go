package currency

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/pricing-api/internal/application/ports"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/pkg/money"
)

// lookupTimeout límite de la consulta compartida al proveedor, independiente de quien la inició.
const lookupTimeout = 10 * time.Second

// Conversion resultado de convertir un importe. Fallback=true significa que la tasa no estuvo
// disponible y se usó 1:1: el importe NO está convertido.
type Conversion struct {
	Amount   decimal.Decimal
	Rate     decimal.Decimal
	From     string
	To       string
	Fallback bool
}

// Normalizer convierte importes a la moneda del documento.
// Ante cualquier falla del proveedor degrada a tasa 1, lo registra en el log y en métricas y
// nunca devuelve error: el cálculo del documento siempre debe completarse.
type Normalizer struct {
	provider ports.RateProvider
	cache    ports.RateCache
	recorder ports.ConversionRecorder
	log      zerolog.Logger
	group    singleflight.Group
}

// NewNormalizer construye el normalizador. cache y recorder son opcionales (nil).
func NewNormalizer(provider ports.RateProvider, cache ports.RateCache, recorder ports.ConversionRecorder, log zerolog.Logger) *Normalizer {
	return &Normalizer{provider: provider, cache: cache, recorder: recorder, log: log}
}

// Convert devuelve amount expresado en `to`, o amount sin convertir si la tasa no está disponible.
func (n *Normalizer) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return n.Quote(ctx, amount, from, to).Amount
}

// Quote igual que Convert pero informa la tasa usada y si hubo fallback.
func (n *Normalizer) Quote(ctx context.Context, amount decimal.Decimal, from, to string) Conversion {
	from, to = normCode(from), normCode(to)
	if money.Same(from, to) {
		n.record(ports.ConversionIdentity)
		return Conversion{Amount: amount, Rate: decimal.NewFromInt(1), From: from, To: to}
	}
	rate, err := n.rate(ctx, from, to)
	if err != nil {
		return n.fallback(amount, from, to, err)
	}
	return Conversion{Amount: amount.Mul(rate), Rate: rate, From: from, To: to}
}

// ConvertAll convierte varios importes a `to` pidiendo una sola tasa por moneda de origen distinta.
// Las tasas se consultan en paralelo; el resultado conserva el orden de items.
func (n *Normalizer) ConvertAll(ctx context.Context, items []entity.Money, to string) []Conversion {
	to = normCode(to)

	var (
		mu    sync.Mutex
		rates = make(map[string]decimal.Decimal)
		errs  = make(map[string]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	seen := make(map[string]struct{})
	for _, it := range items {
		from := normCode(it.Currency)
		if money.Same(from, to) {
			continue
		}
		if _, ok := seen[from]; ok {
			continue
		}
		seen[from] = struct{}{}
		g.Go(func() error {
			rate, err := n.rate(gctx, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[from] = err
				return nil
			}
			rates[from] = rate
			return nil
		})
	}
	_ = g.Wait() // las funciones nunca devuelven error: las fallas son blandas

	out := make([]Conversion, len(items))
	for i, it := range items {
		from := normCode(it.Currency)
		switch {
		case money.Same(from, to):
			n.record(ports.ConversionIdentity)
			out[i] = Conversion{Amount: it.Amount, Rate: decimal.NewFromInt(1), From: from, To: to}
		case errs[from] != nil:
			out[i] = n.fallback(it.Amount, from, to, errs[from])
		default:
			rate := rates[from]
			out[i] = Conversion{Amount: it.Amount.Mul(rate), Rate: rate, From: from, To: to}
		}
	}
	return out
}

// rate obtiene la tasa de caché o del proveedor; peticiones concurrentes del mismo par se unifican.
func (n *Normalizer) rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if n.cache != nil {
		if r, ok := n.cache.Get(ctx, from, to); ok {
			n.record(ports.ConversionCached)
			return r, nil
		}
	}
	if n.provider == nil {
		return decimal.Zero, fmt.Errorf("%w: proveedor no configurado", ports.ErrRateUnavailable)
	}
	// La consulta se comparte entre todos los que piden el mismo par: corre con un contexto
	// desligado y cada llamador espera solo mientras su propio ctx siga vivo.
	ch := n.group.DoChan(from+"->"+to, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		r, err := n.provider.Rate(lctx, from, to)
		if err != nil {
			return decimal.Zero, err
		}
		if !r.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: tasa no positiva %s", ports.ErrRateUnavailable, r)
		}
		if n.cache != nil {
			n.cache.Set(lctx, from, to, r)
		}
		return r, nil
	})
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%w: %v", ports.ErrRateUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		n.record(ports.ConversionOK)
		return res.Val.(decimal.Decimal), nil
	}
}

func (n *Normalizer) fallback(amount decimal.Decimal, from, to string, err error) Conversion {
	n.record(ports.ConversionFallback)
	n.log.Warn().
		Err(err).
		Str("from", from).
		Str("to", to).
		Str("amount", amount.String()).
		Msg("conversión de moneda no disponible, se usa tasa 1")
	return Conversion{Amount: amount, Rate: decimal.NewFromInt(1), From: from, To: to, Fallback: true}
}

func (n *Normalizer) record(result string) {
	if n.recorder != nil {
		n.recorder.RecordConversion(result)
	}
}

func normCode(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
