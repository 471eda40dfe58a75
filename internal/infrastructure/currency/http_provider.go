package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/ports"
)

// Verificar en tiempo de compilación que HTTPRateProvider implementa RateProvider.
var _ ports.RateProvider = (*HTTPRateProvider)(nil)

const convertPath = "/currency/convert"

// HTTPRateProvider adaptador del servicio de conversión de moneda.
// Pide la conversión de 1 unidad y usa el resultado como tasa.
type HTTPRateProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRateProvider construye el adaptador. timeout <= 0 usa 5 s.
func NewHTTPRateProvider(baseURL string, timeout time.Duration) *HTTPRateProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRateProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type convertRequest struct {
	FromCurrency string      `json:"fromCurrency"`
	ToCurrency   string      `json:"toCurrency"`
	Amount       json.Number `json:"amount"`
}

type convertResponse struct {
	ConvertedAmount *decimal.Decimal `json:"convertedAmount"`
}

// Rate implementa ports.RateProvider. Todos los errores envuelven ports.ErrRateUnavailable.
func (p *HTTPRateProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if p.baseURL == "" {
		return decimal.Zero, fmt.Errorf("%w: CURRENCY_SERVICE_URL no configurado", ports.ErrRateUnavailable)
	}

	body, err := json.Marshal(convertRequest{FromCurrency: from, ToCurrency: to, Amount: json.Number("1")})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: serializar request: %v", ports.ErrRateUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+convertPath, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: crear HTTP request: %v", ports.ErrRateUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return decimal.Zero, fmt.Errorf("%w: timeout o cancelación: %v", ports.ErrRateUnavailable, ctx.Err())
		}
		return decimal.Zero, fmt.Errorf("%w: llamada HTTP fallida: %v", ports.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: leer respuesta: %v", ports.ErrRateUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("%w: HTTP %d: %s", ports.ErrRateUnavailable, resp.StatusCode, string(raw))
	}

	var out convertResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return decimal.Zero, fmt.Errorf("%w: deserializar respuesta: %v", ports.ErrRateUnavailable, err)
	}
	if out.ConvertedAmount == nil {
		return decimal.Zero, fmt.Errorf("%w: respuesta sin convertedAmount", ports.ErrRateUnavailable)
	}
	return *out.ConvertedAmount, nil
}
