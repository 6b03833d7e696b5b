package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// ProductRepository puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(tenantID, sku string) (*entity.Product, error)
	// ListByIDs devuelve solo los productos del tenant cuyo ID esté en ids;
	// los IDs ajenos al tenant simplemente no aparecen en el resultado.
	ListByIDs(tenantID string, ids []string) ([]*entity.Product, error)
	List(tenantID string) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
