package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de pago de una factura de compra.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
)

// PurchaseInvoice factura de compra a un proveedor. Number es único por
// (tenant, proveedor). Invariante: PaidAmount <= TotalAmount; Status se
// deriva siempre de esa comparación, nunca se asigna a mano.
type PurchaseInvoice struct {
	ID          string
	TenantID    string
	SupplierID  string
	Number      string
	Date        time.Time
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      InvoiceStatus
	CreatedAt   time.Time
	CreatedBy   string
}

// DeriveStatus recalcula el estado según lo abonado.
func (i *PurchaseInvoice) DeriveStatus() InvoiceStatus {
	switch {
	case i.PaidAmount.GreaterThanOrEqual(i.TotalAmount):
		return InvoiceStatusPaid
	case i.PaidAmount.IsZero():
		return InvoiceStatusPending
	default:
		return InvoiceStatusPartiallyPaid
	}
}

// Remaining devuelve el saldo pendiente.
func (i *PurchaseInvoice) Remaining() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// PurchaseInvoiceLine línea de factura de compra, inmutable desde la creación.
type PurchaseInvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	LineTotal decimal.Decimal
}

// PurchaseInvoicePayment un abono a la factura. Solo-inserción: los pagos
// nunca se netean entre sí ni se editan.
type PurchaseInvoicePayment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidAt    time.Time
	CreatedAt time.Time
}
