package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las operaciones mutantes devuelven siempre uno de estos centinelas para que
// la capa HTTP pueda mapear el código de estado sin inspeccionar mensajes.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrDuplicate          = errors.New("recurso duplicado")

	// Reglas de negocio del motor de inventario/ventas. No son reintentables:
	// deben llegar tal cual al usuario.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrProductInactive        = errors.New("el producto está inactivo")
	ErrTenderMismatch         = errors.New("los pagos no cuadran exactamente con el total de la venta")
	ErrEmptyCart              = errors.New("la venta no tiene líneas")
	ErrSaleCancelled          = errors.New("la venta ya fue anulada")
	ErrDuplicateInvoiceNumber = errors.New("ya existe una factura con ese número para el proveedor")
	ErrInvoiceAlreadyPaid     = errors.New("la factura ya está pagada")
	ErrOverPayment            = errors.New("el pago excede el saldo pendiente de la factura")
	ErrQuoteExpired           = errors.New("la cotización está vencida")
	ErrQuoteAlreadyConverted  = errors.New("la cotización ya fue convertida en venta")
	ErrQuoteNotConvertible    = errors.New("la cotización no está en un estado convertible")

	// ErrDuplicateSubmission: colisión de clave de idempotencia. El caller debe
	// consultar la venta existente, no reintentar a ciegas.
	ErrDuplicateSubmission = errors.New("envío duplicado: ya existe una venta con esa clave de idempotencia")
)
