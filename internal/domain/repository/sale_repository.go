package repository

import (
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas.
// Create debe devolver domain.ErrDuplicateSubmission si pierde la carrera del
// índice único de la clave de idempotencia.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	CreatePayment(payment *entity.SalePayment) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate obtiene la venta bloqueando su fila; dentro de una tx,
	// serializa ajustes y reversiones concurrentes sobre la misma venta.
	GetForUpdate(id string) (*entity.Sale, error)
	GetByIdempotencyKey(tenantID, key string) (*entity.Sale, error)
	ListLines(saleID string) ([]*entity.SaleLine, error)
	ListPayments(saleID string) ([]*entity.SalePayment, error)
	List(tenantID string, from, to time.Time) ([]*entity.Sale, error)
	// UpdateTotals reescribe total, monto pagado y estados (usado por el ajuste).
	UpdateTotals(sale *entity.Sale) error
	DeleteLines(saleID string) error
	DeletePayments(saleID string) error
	Delete(id string) error
}
