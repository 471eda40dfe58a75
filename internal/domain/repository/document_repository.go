package repository

import (
	"context"

	"github.com/jhoicas/pricing-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para facturas y cotizaciones.
// El documento es el agregado: impuestos y líneas se guardan y cargan siempre con él.
type DocumentRepository interface {
	// Create asigna Reference (consecutivo por empresa y tipo) y persiste el agregado.
	// Devuelve domain.ErrConflict si el consecutivo ya fue tomado por otra transacción.
	Create(ctx context.Context, doc *entity.Document) error
	// Update reemplaza cabecera, impuestos y líneas.
	Update(ctx context.Context, doc *entity.Document) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// ListByCompany lista cabeceras (sin líneas). kind vacío = todos.
	ListByCompany(ctx context.Context, companyID string, kind entity.DocumentKind, limit, offset int) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}
