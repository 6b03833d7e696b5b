package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleDraft es el carrito durable previo a la venta: uno por (tenant, usuario).
// No forma parte de la auditoría; al confirmar o cancelar se elimina, no se
// archiva. Sobrevive reinicios porque se persiste como cualquier otra fila.
type SaleDraft struct {
	ID        string
	TenantID  string
	UserID    string
	UpdatedAt time.Time
}

// SaleDraftLine línea del carrito. El precio NO se captura aquí: se resuelve
// al confirmar, contra el precio vigente del catálogo.
type SaleDraftLine struct {
	ID        string
	DraftID   string
	ProductID string
	Quantity  decimal.Decimal
}
