package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// UserRepository puerto de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndTenant(email, tenantID string) (*entity.User, error)
}

// TenantRepository puerto de tenants.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	List() ([]*entity.Tenant, error)
}
