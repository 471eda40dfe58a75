package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/pricing-api/internal/application/billing"
	"github.com/jhoicas/pricing-api/internal/application/usecase"
	"github.com/jhoicas/pricing-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentUC *billing.DocumentUseCase
	PricingUC  *usecase.PricingUseCase
	Metrics    *metrics.Metrics
	JWTSecret  string
	JWTIssuer  string
	// DeleteRoles roles que pueden eliminar documentos. Vacío = cualquier usuario autenticado.
	DeleteRoles []string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Cálculos para previsualización (público)
	pricingHandler := NewPricingHandler(deps.PricingUC)
	api.Post("/pricing/lines", pricingHandler.ComputeLine)
	api.Post("/pricing/totals", pricingHandler.ComputeTotals)
	api.Post("/currency/convert", pricingHandler.Convert)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	if len(deps.DeleteRoles) > 0 {
		documents.Delete("/:id", RequireRole(deps.DeleteRoles...), documentHandler.Delete)
	} else {
		documents.Delete("/:id", documentHandler.Delete)
	}
	documents.Put("/:id/currency", documentHandler.ChangeCurrency)
	documents.Put("/:id/tax-mode", documentHandler.SetTaxMode)

	documents.Post("/:id/lines", documentHandler.AddLine)
	documents.Put("/:id/lines/:lineId", documentHandler.UpdateLine)
	documents.Delete("/:id/lines/:lineId", documentHandler.RemoveLine)

	documents.Post("/:id/taxes", documentHandler.AddTax)
	documents.Put("/:id/taxes/:taxId", documentHandler.UpdateTaxRate)
	documents.Delete("/:id/taxes/:taxId", documentHandler.RemoveTax)
}
