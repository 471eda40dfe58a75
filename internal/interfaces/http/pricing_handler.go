package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pricing-api/internal/application/dto"
	"github.com/jhoicas/pricing-api/internal/application/usecase"
)

// PricingHandler cálculos sin persistencia (público).
type PricingHandler struct {
	uc *usecase.PricingUseCase
}

// NewPricingHandler construye el handler.
func NewPricingHandler(uc *usecase.PricingUseCase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// ComputeLine godoc
// @Summary      Calcular una línea
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeLineRequest  true  "cantidad, precio, descuento e impuestos"
// @Success      200   {object}  entity.LineItem
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/lines [post]
func (h *PricingHandler) ComputeLine(c *fiber.Ctx) error {
	var in dto.ComputeLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	line, err := h.uc.ComputeLine(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// ComputeTotals godoc
// @Summary      Calcular líneas y totales
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeTotalsRequest  true  "líneas, impuestos y modo"
// @Success      200   {object}  dto.ComputeTotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/totals [post]
func (h *PricingHandler) ComputeTotals(c *fiber.Ctx) error {
	var in dto.ComputeTotalsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ComputeTotals(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir importe
// @Tags         currency
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertRequest  true  "fromCurrency, toCurrency, amount"
// @Success      200   {object}  dto.ConvertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/currency/convert [post]
func (h *PricingHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Convert(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
