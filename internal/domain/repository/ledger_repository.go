package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// Granularity granularidad de agregación del libro de caja.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ValidGranularity valida contra el conjunto cerrado.
func ValidGranularity(g Granularity) bool {
	switch g {
	case GranularityDay, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// LedgerBucket un periodo agregado del libro.
type LedgerBucket struct {
	Period  time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// LedgerRepository puerto del libro financiero (solo-inserción).
// DeleteByRef existe solo para la reversión de ventas.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.LedgerEntry, error)
	DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error
	// Aggregate agrupa ingresos/egresos por periodo. method vacío = todos los
	// medios de pago.
	Aggregate(ctx context.Context, tenantID string, from, to time.Time, granularity Granularity, method entity.PaymentMethod) ([]LedgerBucket, error)
}
