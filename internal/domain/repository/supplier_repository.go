package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// SupplierRepository puerto de proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(tenantID string) ([]*entity.Supplier, error)
}
