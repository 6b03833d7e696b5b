package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/quotes"
)

// QuoteHandler maneja cotizaciones y su conversión en venta.
type QuoteHandler struct {
	uc *quotes.QuoteUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quotes.QuoteUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Create crea una cotización en borrador con los precios congelados.
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lines es requerido"})
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve la cotización con su detalle.
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Send marca la cotización como enviada al cliente.
func (h *QuoteHandler) Send(c *fiber.Ctx) error {
	if err := h.uc.Send(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel cancela la cotización.
func (h *QuoteHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert convierte la cotización en venta pendiente de pago.
func (h *QuoteHandler) Convert(c *fiber.Ctx) error {
	saleID, err := h.uc.Convert(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sale_id": saleID})
}
