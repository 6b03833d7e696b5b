package sales

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
)

// Get devuelve la venta con líneas y pagos.
func (uc *SaleUseCase) Get(ctx context.Context, tenantID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.ListLines(saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.saleRepo.ListPayments(saleID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		Date:          sale.Date,
		Total:         sale.Total,
		Status:        string(sale.Status),
		PaymentStatus: string(sale.PaymentStatus),
		AmountPaid:    sale.AmountPaid,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.SalePaymentResponse{
			Method:       string(p.Method),
			Amount:       p.Amount,
			CashReceived: p.CashReceived,
			CashChange:   p.CashChange,
		})
	}
	return resp, nil
}

// Receipt genera el recibo PDF de una venta confirmada. Efecto secundario de
// solo lectura: nunca toca la transacción de la venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, tenantID, saleID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.ListLines(saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.saleRepo.ListPayments(saleID)
	if err != nil {
		return nil, err
	}
	tenant, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return uc.receipts.GenerateSaleReceipt(ctx, tenant, sale, lines, payments, names)
}
