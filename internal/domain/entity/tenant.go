package entity

import "time"

// Tenant representa un comercio (cuenta aislada). Toda fila del núcleo lleva
// TenantID; ninguna consulta ni bloqueo puede cruzar tenants.
type Tenant struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
