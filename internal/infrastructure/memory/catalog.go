package memory

import (
	"sort"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductStore)(nil)
var _ repository.SupplierRepository = (*SupplierStore)(nil)
var _ repository.UserRepository = (*UserStore)(nil)
var _ repository.TenantRepository = (*TenantStore)(nil)

// ProductStore catálogo en memoria.
type ProductStore struct{ s *Store }

func (r *ProductStore) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.TenantID == product.TenantID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductStore) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductStore) GetBySKU(tenantID, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductStore) ListByIDs(tenantID string, ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.TenantID == tenantID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ProductStore) List(tenantID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductStore) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[product.ID] = *product
	return nil
}

// SupplierStore proveedores en memoria.
type SupplierStore struct{ s *Store }

func (r *SupplierStore) Create(supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierStore) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sp, ok := r.s.suppliers[id]; ok {
		cp := sp
		return &cp, nil
	}
	return nil, nil
}

func (r *SupplierStore) List(tenantID string) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for _, sp := range r.s.suppliers {
		if sp.TenantID == tenantID {
			cp := sp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UserStore usuarios en memoria.
type UserStore struct{ s *Store }

func (r *UserStore) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.TenantID == user.TenantID && u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserStore) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserStore) GetByEmailAndTenant(email, tenantID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.TenantID == tenantID {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// TenantStore tenants en memoria.
type TenantStore struct{ s *Store }

func (r *TenantStore) Create(tenant *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tenants[tenant.ID] = *tenant
	return nil
}

func (r *TenantStore) GetByID(id string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tenants[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}

func (r *TenantStore) List() ([]*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.s.tenants {
		cp := t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
