package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pricing-api/internal/domain"
	"github.com/jhoicas/pricing-api/internal/domain/entity"
	"github.com/jhoicas/pricing-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
// Los impuestos por línea no se guardan: se recalculan al abrir el documento.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create toma el siguiente consecutivo de la empresa para el tipo de documento y persiste el agregado.
// El contador vive en su propia tabla: un número emitido nunca se reutiliza, aunque el documento se elimine.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	var seq int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_counters (company_id, kind, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, kind) DO UPDATE SET last_seq = document_counters.last_seq + 1
		RETURNING last_seq`,
		doc.CompanyID, string(doc.Kind),
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next document seq: %w", err)
	}
	doc.Reference = fmt.Sprintf("%s-%06d", doc.Kind.ReferencePrefix(), seq)

	t := doc.Totals
	_, err = r.q.Exec(ctx, `
		INSERT INTO documents (id, company_id, kind, seq, reference, currency, tax_inclusive,
		                       subtotal, total_discount, total_tax, total, amount_due, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		doc.ID, doc.CompanyID, string(doc.Kind), seq, doc.Reference, doc.Currency, doc.TaxInclusive,
		t.Subtotal, t.TotalDiscount, t.TotalTax, t.Total, t.AmountDue, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		doc.Reference = ""
		return mapWriteError("insert document", err)
	}
	return r.writeChildren(ctx, doc)
}

// Update reemplaza cabecera, impuestos y líneas.
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	t := doc.Totals
	tag, err := r.q.Exec(ctx, `
		UPDATE documents
		SET currency       = $2,
		    tax_inclusive  = $3,
		    subtotal       = $4,
		    total_discount = $5,
		    total_tax      = $6,
		    total          = $7,
		    amount_due     = $8,
		    updated_at     = $9
		WHERE id = $1`,
		doc.ID, doc.Currency, doc.TaxInclusive,
		t.Subtotal, t.TotalDiscount, t.TotalTax, t.Total, t.AmountDue, doc.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update document", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.writeChildren(ctx, doc)
}

// writeChildren reescribe impuestos y líneas en un solo batch.
func (r *DocumentRepo) writeChildren(ctx context.Context, doc *entity.Document) error {
	b := &pgx.Batch{}
	b.Queue(`DELETE FROM document_taxes WHERE document_id = $1`, doc.ID)
	b.Queue(`DELETE FROM document_lines WHERE document_id = $1`, doc.ID)
	for i, tax := range doc.Taxes {
		b.Queue(`
			INSERT INTO document_taxes (document_id, position, tax_id, name, rate)
			VALUES ($1, $2, $3, $4, $5)`,
			doc.ID, i, tax.ID, tax.Name, tax.Rate,
		)
	}
	for i, l := range doc.Lines {
		b.Queue(`
			INSERT INTO document_lines (document_id, position, id, product_id, description, quantity, unit_price,
			                            source_amount, source_currency, discount_percent,
			                            subtotal, discount_amount, after_discount, total_tax, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			doc.ID, i, l.ID, l.ProductID, l.Description, l.Quantity, l.UnitPrice,
			l.SourcePrice.Amount, l.SourcePrice.Currency, l.DiscountPercent,
			l.Subtotal, l.DiscountAmount, l.AfterDiscount, l.TotalTax, l.LineTotal,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return mapWriteError("write document taxes/lines", err)
	}
	return nil
}

// GetByID obtiene el documento con impuestos y líneas. nil, nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := scanHeader(r.q.QueryRow(ctx, `
		SELECT id, company_id, kind, reference, currency, tax_inclusive,
		       subtotal, total_discount, total_tax, total, amount_due, created_at, updated_at
		FROM documents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT tax_id, name, rate FROM document_taxes
		WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list document taxes: %w", err)
	}
	doc.Taxes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.TaxRate, error) {
		var t entity.TaxRate
		err := row.Scan(&t.ID, &t.Name, &t.Rate)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan document tax: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, product_id, description, quantity, unit_price, source_amount, source_currency,
		       discount_percent, subtotal, discount_amount, after_discount, total_tax, line_total
		FROM document_lines WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	doc.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LineItem, error) {
		var l entity.LineItem
		err := row.Scan(
			&l.ID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.SourcePrice.Amount, &l.SourcePrice.Currency, &l.DiscountPercent,
			&l.Subtotal, &l.DiscountAmount, &l.AfterDiscount, &l.TotalTax, &l.LineTotal,
		)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan document line: %w", err)
	}
	return doc, nil
}

// ListByCompany lista cabeceras con totales, más recientes primero. kind vacío = todos.
func (r *DocumentRepo) ListByCompany(ctx context.Context, companyID string, kind entity.DocumentKind, limit, offset int) ([]*entity.Document, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, kind, reference, currency, tax_inclusive,
		       subtotal, total_discount, total_tax, total, amount_due, created_at, updated_at
		FROM documents
		WHERE company_id = $1 AND ($2::text = '' OR kind = $2)
		ORDER BY created_at DESC, reference DESC
		LIMIT $3 OFFSET $4`,
		companyID, string(kind), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanHeader(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina el documento; impuestos y líneas caen por ON DELETE CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanHeader(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var kind string
	err := row.Scan(
		&d.ID, &d.CompanyID, &kind, &d.Reference, &d.Currency, &d.TaxInclusive,
		&d.Totals.Subtotal, &d.Totals.TotalDiscount, &d.Totals.TotalTax, &d.Totals.Total, &d.Totals.AmountDue,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	return &d, nil
}
