package billing_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/repository"
)

// memRepo repositorio en memoria; guarda y devuelve copias como lo haría la base de datos.
type memRepo struct {
	mu        sync.Mutex
	docs      map[string]*entity.Document
	seqs      map[string]int
	conflicts int
	creates   int
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[string]*entity.Document), seqs: make(map[string]int)}
}

func (r *memRepo) RunDocuments(_ context.Context, fn func(repo repository.DocumentRepository) error) error {
	return fn(r)
}

func (r *memRepo) Create(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.conflicts > 0 {
		r.conflicts--
		return domain.ErrConflict
	}
	key := doc.CompanyID + "/" + string(doc.Kind)
	r.seqs[key]++
	doc.Reference = fmt.Sprintf("%s-%06d", doc.Kind.ReferencePrefix(), r.seqs[key])
	r.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *memRepo) Update(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneDoc(d), nil
}

func (r *memRepo) ListByCompany(_ context.Context, companyID string, kind entity.DocumentKind, limit, offset int) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.docs {
		if d.CompanyID != companyID || (kind != "" && d.Kind != kind) {
			continue
		}
		out = append(out, cloneDoc(d))
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func cloneDoc(d *entity.Document) *entity.Document {
	c := *d
	c.Taxes = append([]entity.TaxRate(nil), d.Taxes...)
	c.Lines = append([]entity.LineItem(nil), d.Lines...)
	return &c
}

// stubNormalizer convierte con tasas fijas; sin tasa degrada a 1 como el normalizador real.
// gates bloquea las cotizaciones desde una moneda hasta que se cierre el canal.
type stubNormalizer struct {
	rates   map[string]decimal.Decimal
	gates   map[string]chan struct{}
	entered chan string
}

func (s *stubNormalizer) Quote(_ context.Context, amount decimal.Decimal, from, to string) currency.Conversion {
	if gate, ok := s.gates[from]; ok {
		s.entered <- from
		<-gate
	}
	if from == to {
		return currency.Conversion{Amount: amount, Rate: decimal.NewFromInt(1), From: from, To: to}
	}
	rate, ok := s.rates[from+"->"+to]
	if !ok {
		return currency.Conversion{Amount: amount, Rate: decimal.NewFromInt(1), From: from, To: to, Fallback: true}
	}
	return currency.Conversion{Amount: amount.Mul(rate), Rate: rate, From: from, To: to}
}

func (s *stubNormalizer) ConvertAll(ctx context.Context, items []entity.Money, to string) []currency.Conversion {
	out := make([]currency.Conversion, len(items))
	for i, it := range items {
		out[i] = s.Quote(ctx, it.Amount, it.Currency, to)
	}
	return out
}
