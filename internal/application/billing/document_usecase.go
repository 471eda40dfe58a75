package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/application/dto"
	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/pricing"
	"github.com/jhoicas/pricing-api/internal/domain/repository"
	"github.com/jhoicas/pricing-api/pkg/money"
)

const createAttempts = 3

// DocumentUseCase edita facturas y cotizaciones: cada operación abre un Worksheet sobre el
// documento guardado, aplica el cambio, recalcula y persiste en una sola transacción.
type DocumentUseCase struct {
	txRunner     DocumentTxRunner
	repo         repository.DocumentRepository
	normalizer   CurrencyNormalizer
	seq          *Sequencer
	locks        *keyedMutex
	baseCurrency string
	log          zerolog.Logger
	now          func() time.Time
}

// NewDocumentUseCase construye el caso de uso. baseCurrency es la moneda por defecto de documentos nuevos.
func NewDocumentUseCase(
	txRunner DocumentTxRunner,
	repo repository.DocumentRepository,
	normalizer CurrencyNormalizer,
	baseCurrency string,
	log zerolog.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:     txRunner,
		repo:         repo,
		normalizer:   normalizer,
		seq:          NewSequencer(),
		locks:        newKeyedMutex(),
		baseCurrency: baseCurrency,
		log:          log,
		now:          time.Now,
	}
}

// Create crea el documento con sus impuestos y líneas iniciales.
// Los precios de las líneas se convierten en lote a la moneda del documento.
func (uc *DocumentUseCase) Create(ctx context.Context, companyID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	kind := entity.DocumentKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !kind.Valid() {
		return nil, domain.NewValidationError("kind", "debe ser invoice o quotation")
	}
	code := uc.baseCurrency
	if strings.TrimSpace(in.Currency) != "" {
		c, err := money.NormalizeCode(in.Currency)
		if err != nil {
			return nil, domain.NewValidationError("currency", err.Error())
		}
		code = c
	}
	taxes := make([]entity.TaxRate, 0, len(in.Taxes))
	for _, t := range in.Taxes {
		taxes = append(taxes, toTaxRate(t))
	}

	now := uc.now()
	doc := &entity.Document{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Kind:         kind,
		Currency:     code,
		TaxInclusive: in.TaxInclusive,
		Taxes:        taxes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ws, err := pricing.NewWorksheet(doc)
	if err != nil {
		return nil, err
	}

	sources := make([]entity.Money, len(in.Lines))
	for i, l := range in.Lines {
		src, err := sourcePrice(l.UnitPrice, l.Currency, code)
		if err != nil {
			return nil, err
		}
		sources[i] = src
	}
	conversions := uc.normalizer.ConvertAll(ctx, sources, code)
	for i, l := range in.Lines {
		if _, err := ws.AddLine(pricing.NewLine{
			ID:              uuid.New().String(),
			ProductID:       l.ProductID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       conversions[i].Amount,
			SourcePrice:     sources[i],
			DiscountPercent: l.DiscountPercent,
		}); err != nil {
			return nil, err
		}
	}

	for attempt := 1; ; attempt++ {
		err = uc.txRunner.RunDocuments(ctx, func(repo repository.DocumentRepository) error {
			return repo.Create(ctx, doc)
		})
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt == createAttempts {
			break
		}
		uc.log.Debug().Int("attempt", attempt).Str("kind", string(kind)).Msg("consecutivo ocupado, reintentando")
	}
	if err != nil {
		return nil, fmt.Errorf("crear documento: %w", err)
	}
	return toDocumentResponse(ws.Document(), fallbackWarnings(conversions)), nil
}

// Get devuelve el documento con líneas y totales recalculados.
func (uc *DocumentUseCase) Get(ctx context.Context, companyID, docID string) (*dto.DocumentResponse, error) {
	doc, err := uc.load(ctx, uc.repo, companyID, docID)
	if err != nil {
		return nil, err
	}
	ws, err := pricing.NewWorksheet(doc)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(ws.Document(), nil), nil
}

// List lista los documentos de la empresa. kind vacío devuelve facturas y cotizaciones.
func (uc *DocumentUseCase) List(ctx context.Context, companyID, kind string, page dto.PageRequest) (*dto.DocumentListResponse, error) {
	page.DefaultPage()
	k := entity.DocumentKind(strings.ToLower(strings.TrimSpace(kind)))
	if k != "" && !k.Valid() {
		return nil, domain.NewValidationError("kind", "debe ser invoice o quotation")
	}
	docs, err := uc.repo.ListByCompany(ctx, companyID, k, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	items := make([]dto.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.DocumentSummary{
			ID:           d.ID,
			Kind:         d.Kind,
			Reference:    d.Reference,
			Currency:     d.Currency,
			TaxInclusive: d.TaxInclusive,
			Total:        d.Totals.Total,
			AmountDue:    d.Totals.AmountDue,
			UpdatedAt:    d.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.DocumentListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina el documento y olvida las peticiones en curso sobre sus líneas.
func (uc *DocumentUseCase) Delete(ctx context.Context, companyID, docID string) error {
	unlock := uc.locks.Lock(docID)
	defer unlock()

	var lineIDs []string
	err := uc.txRunner.RunDocuments(ctx, func(repo repository.DocumentRepository) error {
		doc, err := uc.load(ctx, repo, companyID, docID)
		if err != nil {
			return err
		}
		for _, l := range doc.Lines {
			lineIDs = append(lineIDs, l.ID)
		}
		return repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}
	for _, id := range lineIDs {
		uc.seq.Forget(lineKey(docID, id))
	}
	uc.seq.Forget(currencyKey(docID))
	return nil
}

// AddLine agrega una línea; el precio se convierte a la moneda del documento.
func (uc *DocumentUseCase) AddLine(ctx context.Context, companyID, docID string, in dto.LineRequest) (*dto.DocumentResponse, error) {
	current, err := uc.load(ctx, uc.repo, companyID, docID)
	if err != nil {
		return nil, err
	}
	src, err := sourcePrice(in.UnitPrice, in.Currency, current.Currency)
	if err != nil {
		return nil, err
	}
	conv := uc.normalizer.Quote(ctx, src.Amount, src.Currency, current.Currency)

	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		if ws.Document().Currency != conv.To {
			return domain.ErrStaleUpdate
		}
		_, err := ws.AddLine(pricing.NewLine{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			Description:     in.Description,
			Quantity:        in.Quantity,
			UnitPrice:       conv.Amount,
			SourcePrice:     src,
			DiscountPercent: in.DiscountPercent,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, fallbackWarnings([]currency.Conversion{conv})), nil
}

// UpdateLine modifica una línea. Si cambia el precio, gana la última petición emitida para la
// línea: una conversión que termina después de otra edición más reciente se descarta con ErrStaleUpdate.
func (uc *DocumentUseCase) UpdateLine(ctx context.Context, companyID, docID, lineID string, in dto.UpdateLineRequest) (*dto.DocumentResponse, error) {
	if in.UnitPrice == nil && strings.TrimSpace(in.Currency) != "" {
		return nil, domain.NewValidationError("currency", "requiere unit_price")
	}
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	patch := pricing.LinePatch{
		Quantity:        in.Quantity,
		DiscountPercent: in.DiscountPercent,
		Description:     in.Description,
	}
	key := lineKey(docID, lineID)

	// El token se toma solo cuando la petición es válida y antes de consultar la tasa.
	var (
		token uint64
		conv  *currency.Conversion
	)
	if in.UnitPrice != nil {
		current, err := uc.load(ctx, uc.repo, companyID, docID)
		if err != nil {
			return nil, err
		}
		if current.LineIndex(lineID) < 0 {
			return nil, domain.ErrNotFound
		}
		src, err := sourcePrice(*in.UnitPrice, in.Currency, current.Currency)
		if err != nil {
			return nil, err
		}
		token = uc.seq.Next(key)
		q := uc.normalizer.Quote(ctx, src.Amount, src.Currency, current.Currency)
		conv = &q
		patch.UnitPrice = &q.Amount
		patch.SourcePrice = &src
	} else {
		token = uc.seq.Next(key)
	}

	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		if !uc.seq.IsLatest(key, token) {
			return domain.ErrStaleUpdate
		}
		if conv != nil && ws.Document().Currency != conv.To {
			return domain.ErrStaleUpdate
		}
		_, err := ws.UpdateLine(lineID, patch)
		return err
	})
	if errors.Is(err, domain.ErrStaleUpdate) {
		uc.log.Info().Str("document_id", docID).Str("line_id", lineID).Msg("actualización de línea descartada por una más reciente")
	}
	if err != nil {
		return nil, err
	}
	var warnings []string
	if conv != nil {
		warnings = fallbackWarnings([]currency.Conversion{*conv})
	}
	return toDocumentResponse(doc, warnings), nil
}

// RemoveLine elimina una línea.
func (uc *DocumentUseCase) RemoveLine(ctx context.Context, companyID, docID, lineID string) (*dto.DocumentResponse, error) {
	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		return ws.RemoveLine(lineID)
	})
	if err != nil {
		return nil, err
	}
	uc.seq.Forget(lineKey(docID, lineID))
	return toDocumentResponse(doc, nil), nil
}

// AddTax agrega un impuesto al documento; se aplica a todas las líneas.
func (uc *DocumentUseCase) AddTax(ctx context.Context, companyID, docID string, in dto.TaxRequest) (*dto.DocumentResponse, error) {
	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		return ws.AddTax(toTaxRate(in))
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// UpdateTaxRate cambia la tasa de un impuesto y recalcula todas las líneas.
func (uc *DocumentUseCase) UpdateTaxRate(ctx context.Context, companyID, docID, taxID string, rate decimal.Decimal) (*dto.DocumentResponse, error) {
	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		return ws.UpdateTaxRate(taxID, rate)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// RemoveTax quita un impuesto. El documento conserva siempre al menos uno.
func (uc *DocumentUseCase) RemoveTax(ctx context.Context, companyID, docID, taxID string) (*dto.DocumentResponse, error) {
	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		return ws.RemoveTax(taxID)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// SetTaxMode cambia entre impuesto incluido y excluido.
func (uc *DocumentUseCase) SetTaxMode(ctx context.Context, companyID, docID string, inclusive bool) (*dto.DocumentResponse, error) {
	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		ws.SetTaxInclusive(inclusive)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// ChangeCurrency cambia la moneda del documento reconvirtiendo cada línea desde su precio de origen.
// Si otra petición modifica precios o la moneda mientras se consultan las tasas, devuelve ErrStaleUpdate.
func (uc *DocumentUseCase) ChangeCurrency(ctx context.Context, companyID, docID, code string) (*dto.DocumentResponse, error) {
	to, err := money.NormalizeCode(code)
	if err != nil {
		return nil, domain.NewValidationError("currency", err.Error())
	}
	current, err := uc.load(ctx, uc.repo, companyID, docID)
	if err != nil {
		return nil, err
	}
	key := currencyKey(docID)
	token := uc.seq.Next(key)
	sources := make([]entity.Money, len(current.Lines))
	for i, l := range current.Lines {
		sources[i] = l.SourcePrice
	}
	conversions := uc.normalizer.ConvertAll(ctx, sources, to)
	prices := make(map[string]decimal.Decimal, len(current.Lines))
	converted := make(map[string]entity.Money, len(current.Lines))
	for i, l := range current.Lines {
		prices[l.ID] = conversions[i].Amount
		converted[l.ID] = l.SourcePrice
	}

	doc, err := uc.mutate(ctx, companyID, docID, func(ws *pricing.Worksheet) error {
		if !uc.seq.IsLatest(key, token) || ws.Document().Currency != current.Currency {
			return domain.ErrStaleUpdate
		}
		for _, l := range ws.Document().Lines {
			src, ok := converted[l.ID]
			if !ok || !src.Amount.Equal(l.SourcePrice.Amount) || src.Currency != l.SourcePrice.Currency {
				return domain.ErrStaleUpdate
			}
		}
		return ws.ChangeCurrency(to, prices)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, fallbackWarnings(conversions)), nil
}

// mutate serializa las modificaciones de un documento y las persiste en una transacción.
func (uc *DocumentUseCase) mutate(ctx context.Context, companyID, docID string, fn func(ws *pricing.Worksheet) error) (*entity.Document, error) {
	unlock := uc.locks.Lock(docID)
	defer unlock()

	var out *entity.Document
	err := uc.txRunner.RunDocuments(ctx, func(repo repository.DocumentRepository) error {
		doc, err := uc.load(ctx, repo, companyID, docID)
		if err != nil {
			return err
		}
		ws, err := pricing.NewWorksheet(doc)
		if err != nil {
			return err
		}
		if err := fn(ws); err != nil {
			return err
		}
		doc.UpdatedAt = uc.now()
		if err := repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("guardar documento: %w", err)
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, repo repository.DocumentRepository, companyID, docID string) (*entity.Document, error) {
	doc, err := repo.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func sourcePrice(amount decimal.Decimal, code, fallback string) (entity.Money, error) {
	if strings.TrimSpace(code) == "" {
		return entity.Money{Amount: amount, Currency: fallback}, nil
	}
	c, err := money.NormalizeCode(code)
	if err != nil {
		return entity.Money{}, domain.NewValidationError("currency", err.Error())
	}
	return entity.Money{Amount: amount, Currency: c}, nil
}

func toTaxRate(in dto.TaxRequest) entity.TaxRate {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	return entity.TaxRate{ID: id, Name: strings.TrimSpace(in.Name), Rate: in.Rate}
}

func lineKey(docID, lineID string) string { return docID + "/lines/" + lineID }

func currencyKey(docID string) string { return docID + "/currency" }
