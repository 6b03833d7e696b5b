package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteLineRequest línea a cotizar. El precio se congela al crear la
// cotización con el valor vigente del catálogo.
type CreateQuoteLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateQuoteRequest crea una cotización en DRAFT.
type CreateQuoteRequest struct {
	CustomerName string                   `json:"customer_name"`
	ValidUntil   *time.Time               `json:"valid_until"`
	Lines        []CreateQuoteLineRequest `json:"lines"`
}

// QuoteLineResponse línea cotizada (snapshot).
type QuoteLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitMeasure string          `json:"unit_measure"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuoteResponse cotización con detalle.
type QuoteResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	ValidUntil   *time.Time          `json:"valid_until,omitempty"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	SaleID       string              `json:"sale_id,omitempty"`
	Lines        []QuoteLineResponse `json:"lines"`
}
