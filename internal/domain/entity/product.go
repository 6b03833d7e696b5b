package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El stock disponible NO vive aquí: se materializa en StockBalance y solo se
// modifica junto con líneas de movimiento (ver StockMovement).
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código único por tenant
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	UnitMeasure string
	MinStock    decimal.Decimal
	// UnlimitedStock marca productos tipo servicio: exentos de la validación
	// de disponibilidad, aunque sus movimientos se registran igual.
	UnlimitedStock bool
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
