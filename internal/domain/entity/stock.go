package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la vista materializada del stock disponible de un producto.
// Invariante: OnHand == suma de cantidades firmadas de todas las líneas de
// movimiento del producto. Nunca se escribe fuera de la misma unidad de
// trabajo que inserta esas líneas.
type StockBalance struct {
	TenantID  string
	ProductID string
	OnHand    decimal.Decimal
	UpdatedAt time.Time
}
