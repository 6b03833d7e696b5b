package entity

import "time"

// Supplier proveedor al que se le registran facturas de compra.
type Supplier struct {
	ID        string
	TenantID  string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
