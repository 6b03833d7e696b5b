package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado de una cotización.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusCanceled QuoteStatus = "CANCELED"
)

// Quote cotización con precios congelados. Solo es convertible en venta
// mientras está en DRAFT o SENT, no vencida y sin SaleID; la conversión fija
// SaleID y pasa a ACCEPTED de forma permanente.
type Quote struct {
	ID           string
	TenantID     string
	CustomerName string
	Status       QuoteStatus
	ValidUntil   *time.Time // nil = sin vencimiento
	TotalAmount  decimal.Decimal
	SaleID       string // vacío hasta la conversión; único una vez fijado
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

// Expired indica si la cotización venció respecto a la fecha dada.
func (q *Quote) Expired(today time.Time) bool {
	if q.ValidUntil == nil {
		return false
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return day.After(*q.ValidUntil)
}

// QuoteLine línea de cotización: snapshot de nombre, unidad y precio del
// producto al momento de cotizar, independiente de cambios posteriores del
// catálogo.
type QuoteLine struct {
	ID          string
	QuoteID     string
	ProductID   string
	ProductName string
	UnitMeasure string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}
