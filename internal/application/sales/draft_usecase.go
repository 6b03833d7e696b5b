package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// DraftUseCase maneja el carrito durable por (tenant, usuario). Es estado
// privado del cajero: no participa del protocolo de bloqueo ni del libro.
type DraftUseCase struct {
	draftRepo   repository.SaleDraftRepository
	productRepo repository.ProductRepository
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(draftRepo repository.SaleDraftRepository, productRepo repository.ProductRepository) *DraftUseCase {
	return &DraftUseCase{draftRepo: draftRepo, productRepo: productRepo}
}

// SetLine fija la cantidad de un producto en el carrito. Cantidad cero o
// negativa equivale a quitar la línea.
func (uc *DraftUseCase) SetLine(ctx context.Context, tenantID, userID string, in dto.SetDraftLineRequest) error {
	if in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	draft, err := uc.draftRepo.GetOrCreate(tenantID, userID)
	if err != nil {
		return err
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return uc.draftRepo.RemoveLine(draft.ID, in.ProductID)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil || product.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if !product.Active {
		return domain.ErrProductInactive
	}
	return uc.draftRepo.SetLine(draft.ID, in.ProductID, in.Quantity)
}

// RemoveLine quita un producto del carrito.
func (uc *DraftUseCase) RemoveLine(ctx context.Context, tenantID, userID, productID string) error {
	draft, err := uc.draftRepo.GetOrCreate(tenantID, userID)
	if err != nil {
		return err
	}
	return uc.draftRepo.RemoveLine(draft.ID, productID)
}

// Get devuelve el carrito con totales estimados a precios vigentes. El total
// definitivo se calcula al confirmar; este es solo informativo para la caja.
func (uc *DraftUseCase) Get(ctx context.Context, tenantID, userID string) (*dto.DraftResponse, error) {
	draft, err := uc.draftRepo.GetOrCreate(tenantID, userID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.draftRepo.ListLines(draft.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.DraftResponse{Total: decimal.Zero}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(products))
	price := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		byID[p.ID] = p.Name
		price[p.ID] = p.Price
	}
	for _, l := range lines {
		lineTotal := l.Quantity.Mul(price[l.ProductID])
		resp.Lines = append(resp.Lines, dto.DraftLineResponse{
			ProductID:   l.ProductID,
			ProductName: byID[l.ProductID],
			Quantity:    l.Quantity,
			UnitPrice:   price[l.ProductID],
			LineTotal:   lineTotal,
		})
		resp.Total = resp.Total.Add(lineTotal)
	}
	return resp, nil
}

// Clear descarta el carrito completo.
func (uc *DraftUseCase) Clear(ctx context.Context, tenantID, userID string) error {
	return uc.draftRepo.Delete(tenantID, userID)
}
