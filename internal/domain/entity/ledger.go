package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType tipo de asiento del libro de caja.
type LedgerType string

const (
	LedgerIncome  LedgerType = "INCOME"
	LedgerExpense LedgerType = "EXPENSE"
)

// LedgerEntry asiento del libro financiero. Solo-inserción: jamás se edita;
// únicamente se elimina cuando la reversión de una venta o pago elimina
// también el documento de negocio que lo originó. El libro es la única
// fuente para los reportes de caja; nunca se recalcula desde movimientos.
type LedgerEntry struct {
	ID       string
	TenantID string
	Date     time.Time
	Type     LedgerType
	Amount   decimal.Decimal
	RefKind  ReferenceKind
	RefID    string
	// Method queda vacío en asientos por devengo (ej. conversión de
	// cotización sin pago inmediato).
	Method    PaymentMethod
	CreatedAt time.Time
}
