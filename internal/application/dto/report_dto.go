package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerBucketResponse un periodo agregado del libro de caja.
type LedgerBucketResponse struct {
	Period  time.Time       `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// LedgerReportResponse reporte de caja por rango y granularidad.
type LedgerReportResponse struct {
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Granularity string                 `json:"granularity"`
	Method      string                 `json:"method,omitempty"`
	Buckets     []LedgerBucketResponse `json:"buckets"`
}

// StockBalanceResponse stock disponible de un producto.
type StockBalanceResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	OnHand      decimal.Decimal `json:"on_hand"`
	MinStock    decimal.Decimal `json:"min_stock"`
	BelowMin    bool            `json:"below_min"`
}
