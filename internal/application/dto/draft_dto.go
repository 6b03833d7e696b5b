package dto

import "github.com/shopspring/decimal"

// SetDraftLineRequest fija la cantidad de un producto en el carrito.
type SetDraftLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// DraftLineResponse línea del carrito con datos del producto para la caja.
type DraftLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// DraftResponse el carrito del usuario con total estimado a precios vigentes.
type DraftResponse struct {
	Lines []DraftLineResponse `json:"lines"`
	Total decimal.Decimal     `json:"total"`
}
