package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceLineRequest línea de una factura de compra.
type CreateInvoiceLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateInvoiceRequest crea una factura de compra (entrada de stock).
type CreateInvoiceRequest struct {
	SupplierID string                     `json:"supplier_id"`
	Number     string                     `json:"number"`
	Date       time.Time                  `json:"date"`
	Lines      []CreateInvoiceLineRequest `json:"lines"`
}

// RegisterPaymentRequest registra un abono a la factura.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
}

// InvoiceLineResponse línea de factura.
type InvoiceLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoicePaymentResponse un abono registrado.
type InvoicePaymentResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
}

// InvoiceResponse factura con detalle y abonos.
type InvoiceResponse struct {
	ID          string                   `json:"id"`
	SupplierID  string                   `json:"supplier_id"`
	Number      string                   `json:"number"`
	Date        time.Time                `json:"date"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	PaidAmount  decimal.Decimal          `json:"paid_amount"`
	Status      string                   `json:"status"`
	Lines       []InvoiceLineResponse    `json:"lines"`
	Payments    []InvoicePaymentResponse `json:"payments"`
}
