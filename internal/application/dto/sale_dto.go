package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenderRequest un pago declarado por el cliente al confirmar la venta.
// CashReceived solo aplica a CASH; el cambio se calcula en el servidor.
type TenderRequest struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	CashReceived decimal.Decimal `json:"cash_received"`
}

// ConfirmSaleRequest confirma el carrito del usuario autenticado.
// La suma de los pagos debe cuadrar EXACTAMENTE con el total calculado en el
// servidor; cualquier diferencia es error del cliente.
type ConfirmSaleRequest struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Tenders        []TenderRequest `json:"tenders"`
}

// AdjustSaleLineRequest línea del nuevo conjunto al ajustar una venta.
// UnitPrice ausente (null) = conservar el precio ya capturado en la venta, o
// el vigente del catálogo si el producto es nuevo en la venta. Un cero
// explícito es un precio válido (línea de cortesía).
type AdjustSaleLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// AdjustSaleRequest reemplaza el conjunto de líneas de una venta confirmada.
type AdjustSaleRequest struct {
	Lines []AdjustSaleLineRequest `json:"lines"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SalePaymentResponse pago de una venta.
type SalePaymentResponse struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	CashReceived decimal.Decimal `json:"cash_received,omitempty"`
	CashChange   decimal.Decimal `json:"cash_change,omitempty"`
}

// SaleResponse venta con detalle completo.
type SaleResponse struct {
	ID            string                `json:"id"`
	Date          time.Time             `json:"date"`
	Total         decimal.Decimal       `json:"total"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	Lines         []SaleLineResponse    `json:"lines"`
	Payments      []SalePaymentResponse `json:"payments"`
}

// ConfirmSaleResponse resultado de la confirmación.
type ConfirmSaleResponse struct {
	SaleID string          `json:"sale_id"`
	Total  decimal.Decimal `json:"total"`
}
