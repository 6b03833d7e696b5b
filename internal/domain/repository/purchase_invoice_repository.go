package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// PurchaseInvoiceRepository puerto de facturas de compra.
// Create debe devolver domain.ErrDuplicateInvoiceNumber si pierde la carrera
// del índice único (tenant, proveedor, número).
type PurchaseInvoiceRepository interface {
	Create(invoice *entity.PurchaseInvoice) error
	CreateLine(line *entity.PurchaseInvoiceLine) error
	CreatePayment(payment *entity.PurchaseInvoicePayment) error
	GetByID(id string) (*entity.PurchaseInvoice, error)
	// GetForUpdate bloquea la fila de la factura (registro de pagos).
	GetForUpdate(id string) (*entity.PurchaseInvoice, error)
	GetByNumber(tenantID, supplierID, number string) (*entity.PurchaseInvoice, error)
	ListLines(invoiceID string) ([]*entity.PurchaseInvoiceLine, error)
	ListPayments(invoiceID string) ([]*entity.PurchaseInvoicePayment, error)
	List(tenantID string) ([]*entity.PurchaseInvoice, error)
	// UpdatePaid persiste paid_amount y el estado derivado.
	UpdatePaid(invoice *entity.PurchaseInvoice) error
}
