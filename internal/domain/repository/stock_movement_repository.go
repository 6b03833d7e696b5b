package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// StockMovementRepository puerto del log de movimientos (solo-inserción).
// DeleteByRef existe únicamente para la reversión total de una venta, que
// elimina el documento de negocio junto con su rastro.
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	CreateLine(line *entity.StockMovementLine) error
	ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.StockMovement, error)
	ListLines(movementID string) ([]*entity.StockMovementLine, error)
	DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error
	// SumByProduct suma las cantidades firmadas de todas las líneas del
	// producto. Auditoría: debe coincidir siempre con StockBalance.OnHand.
	SumByProduct(tenantID, productID string) (decimal.Decimal, error)
}
