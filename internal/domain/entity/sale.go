package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta.
type SaleStatus string

const (
	SaleStatusConfirmed SaleStatus = "CONFIRMED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// PaymentStatus estado de pago de una venta.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
)

// PaymentMethod medio de pago aceptado en caja.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// ValidPaymentMethod valida contra el conjunto cerrado de medios de pago.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale es una venta confirmada. Se crea una sola vez al confirmar; después
// solo la mutan el ajuste (reescribe líneas y total) o la eliminación
// (que además revierte stock y asientos). Nunca se re-crea.
type Sale struct {
	ID       string
	TenantID string
	Date     time.Time
	Total    decimal.Decimal
	Status   SaleStatus
	// IdempotencyKey: clave única (nullable) aportada por el cliente para
	// garantizar exactamente-una-vez en confirmaciones reintentadas.
	IdempotencyKey string
	AmountPaid     decimal.Decimal
	PaymentStatus  PaymentStatus
	CreatedAt      time.Time
	CreatedBy      string
}

// DerivePaymentStatus recalcula el estado de pago a partir de lo abonado.
func (s *Sale) DerivePaymentStatus() PaymentStatus {
	switch {
	case s.AmountPaid.GreaterThanOrEqual(s.Total):
		return PaymentStatusPaid
	case s.AmountPaid.IsZero():
		return PaymentStatusPending
	default:
		return PaymentStatusPartial
	}
}

// SaleLine línea de venta con precio capturado al momento de la confirmación.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// SalePayment un pago de la venta. El efectivo registra además lo recibido y
// el cambio entregado.
type SalePayment struct {
	ID           string
	SaleID       string
	Method       PaymentMethod
	Amount       decimal.Decimal
	CashReceived decimal.Decimal // solo CASH
	CashChange   decimal.Decimal // solo CASH
}
