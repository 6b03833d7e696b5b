package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind clasifica un movimiento de stock.
type MovementKind string

const (
	MovementKindIn     MovementKind = "IN"     // entrada (compra)
	MovementKindOut    MovementKind = "OUT"    // salida (venta)
	MovementKindAdjust MovementKind = "ADJUST" // corrección compensatoria
)

// ReferenceKind indica qué documento de negocio originó un movimiento o un
// asiento del libro de caja.
type ReferenceKind string

const (
	RefSale    ReferenceKind = "SALE"
	RefInvoice ReferenceKind = "INVOICE"
	RefManual  ReferenceKind = "MANUAL"
)

// StockMovement es la cabecera inmutable de un movimiento de stock.
// Una vez persistido jamás se edita: las correcciones son movimientos nuevos
// de tipo ADJUST. El historial de movimientos es la fuente de verdad del
// stock; StockBalance es solo su proyección.
type StockMovement struct {
	ID        string
	TenantID  string
	Kind      MovementKind
	RefKind   ReferenceKind
	RefID     string
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}

// StockMovementLine es una línea de movimiento: cantidad firmada por producto.
// Las salidas llevan cantidad negativa; entradas y ajustes positivos, positiva.
type StockMovementLine struct {
	ID         string
	MovementID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // opcional; 0 cuando no aplica (salidas de venta)
}
