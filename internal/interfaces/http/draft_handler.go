package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
)

// DraftHandler maneja el carrito durable del usuario autenticado.
type DraftHandler struct {
	uc *sales.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *sales.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Get devuelve el carrito con totales estimados a precios vigentes.
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetLine fija la cantidad de un producto en el carrito. Cantidad cero o
// negativa lo quita.
func (h *DraftHandler) SetLine(c *fiber.Ctx) error {
	var in dto.SetDraftLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	if err := h.uc.SetLine(c.Context(), GetTenantID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveLine quita un producto del carrito.
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.uc.RemoveLine(c.Context(), GetTenantID(c), GetUserID(c), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear descarta el carrito completo.
func (h *DraftHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.Context(), GetTenantID(c), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
