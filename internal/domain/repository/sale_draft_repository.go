package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// SaleDraftRepository puerto del carrito durable por (tenant, usuario).
// Estado privado del par (tenant, usuario): no requiere locking.
type SaleDraftRepository interface {
	GetOrCreate(tenantID, userID string) (*entity.SaleDraft, error)
	// SetLine fija la cantidad de un producto en el carrito (upsert).
	SetLine(draftID, productID string, quantity decimal.Decimal) error
	RemoveLine(draftID, productID string) error
	ListLines(draftID string) ([]*entity.SaleDraftLine, error)
	// Delete descarta el carrito y sus líneas (confirmación o cancelación).
	Delete(tenantID, userID string) error
}
