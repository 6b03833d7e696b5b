package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
)

// respondError traduce los errores sentinela del dominio a respuestas HTTP.
// Todo lo no reconocido es un 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrProductInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_INACTIVE", Message: "producto inactivo"})
	case errors.Is(err, domain.ErrTenderMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "TENDER_MISMATCH", Message: "la suma de pagos no cuadra con el total"})
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_SUBMISSION", Message: "confirmación duplicada (clave de idempotencia ya usada)"})
	case errors.Is(err, domain.ErrSaleCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_CANCELLED", Message: "la venta está cancelada"})
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_INVOICE", Message: "número de factura ya registrado para ese proveedor"})
	case errors.Is(err, domain.ErrInvoiceAlreadyPaid):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVOICE_PAID", Message: "la factura ya está pagada"})
	case errors.Is(err, domain.ErrOverPayment):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "OVER_PAYMENT", Message: "el abono excede el saldo pendiente"})
	case errors.Is(err, domain.ErrQuoteExpired):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUOTE_EXPIRED", Message: "la cotización está vencida"})
	case errors.Is(err, domain.ErrQuoteAlreadyConverted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUOTE_CONVERTED", Message: "la cotización ya fue convertida en venta"})
	case errors.Is(err, domain.ErrQuoteNotConvertible):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUOTE_NOT_CONVERTIBLE", Message: "la cotización no admite conversión"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado en ese tenant"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operación no permitida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
