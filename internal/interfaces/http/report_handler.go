package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/reporting"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ReportHandler camino de lectura: libro de caja agregado y stock.
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Ledger agrega el libro por rango y granularidad.
// Query params: from, to (YYYY-MM-DD), granularity (day|month|year), method (opcional).
func (h *ReportHandler) Ledger(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
	}
	// El rango es inclusivo: el día "to" entra completo.
	to = to.Add(24*time.Hour - time.Nanosecond)

	granularity := repository.Granularity(c.Query("granularity", string(repository.GranularityDay)))
	method := entity.PaymentMethod(c.Query("method"))

	out, err := h.uc.Ledger(c.Context(), GetTenantID(c), from, to, granularity, method)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stock lista el stock disponible del tenant.
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.Stock(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
