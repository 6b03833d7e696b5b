package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo. El stock NO se maneja
// aquí: se materializa en StockBalance vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto activo. SKU único por tenant.
func (uc *ProductUseCase) Create(tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(tenantID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		UnitMeasure:    in.UnitMeasure,
		MinStock:       in.MinStock,
		UnlimitedStock: in.UnlimitedStock,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo del tenant.
func (uc *ProductUseCase) List(tenantID string) ([]dto.ProductResponse, error) {
	products, err := uc.repo.List(tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update actualiza datos del producto. El SKU no cambia; el stock tampoco
// (se maneja vía movimientos).
func (uc *ProductUseCase) Update(tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() || in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if !in.Price.IsZero() {
		product.Price = in.Price
	}
	if in.UnitMeasure != "" {
		product.UnitMeasure = in.UnitMeasure
	}
	product.MinStock = in.MinStock
	product.UnlimitedStock = in.UnlimitedStock
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate marca el producto como inactivo: deja de ser vendible pero su
// historial de movimientos permanece.
func (uc *ProductUseCase) Deactivate(tenantID, id string) error {
	product, err := uc.getOwned(tenantID, id)
	if err != nil {
		return err
	}
	product.Active = false
	product.UpdatedAt = time.Now()
	return uc.repo.Update(product)
}

func (uc *ProductUseCase) getOwned(tenantID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		UnitMeasure:    p.UnitMeasure,
		MinStock:       p.MinStock,
		UnlimitedStock: p.UnlimitedStock,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
	}
}
