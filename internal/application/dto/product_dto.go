package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	UnitMeasure    string          `json:"unit_measure"`
	MinStock       decimal.Decimal `json:"min_stock"`
	UnlimitedStock bool            `json:"unlimited_stock"`
}

// UpdateProductRequest actualización de producto.
type UpdateProductRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	UnitMeasure    string          `json:"unit_measure"`
	MinStock       decimal.Decimal `json:"min_stock"`
	UnlimitedStock bool            `json:"unlimited_stock"`
	Active         *bool           `json:"active"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	UnitMeasure    string          `json:"unit_measure,omitempty"`
	MinStock       decimal.Decimal `json:"min_stock"`
	UnlimitedStock bool            `json:"unlimited_stock"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}
