package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// RegisterPayment registra un abono a la factura dentro de su propia
// transacción.
func (uc *InvoiceUseCase) RegisterPayment(ctx context.Context, tenantID, invoiceID string, in dto.RegisterPaymentRequest) (*dto.InvoicePaymentResponse, error) {
	var resp *dto.InvoicePaymentResponse
	err := uc.txRunner.RunPurchasing(ctx, func(
		invoiceRepo repository.PurchaseInvoiceRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		var err error
		resp, err = uc.RegisterPaymentInTx(invoiceRepo, ledgerRepo, tenantID, invoiceID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateReports(ctx, tenantID)
	return resp, nil
}

// RegisterPaymentInTx ejecuta el abono usando los repositorios del caller
// (misma transacción). Permite componer el pago dentro de una unidad de
// trabajo mayor: si el caller usa una subtransacción, un fallo de regla de
// negocio aquí revierte solo este abono.
//
// Protocolo: bloquea la fila de la factura, rechaza facturas ya pagadas y
// abonos que excedan el saldo, incrementa paid_amount, deriva el estado y
// emite un asiento EXPENSE por el abono. Los abonos son solo-inserción:
// jamás se netean entre sí.
func (uc *InvoiceUseCase) RegisterPaymentInTx(
	invoiceRepo repository.PurchaseInvoiceRepository,
	ledgerRepo repository.LedgerRepository,
	tenantID, invoiceID string,
	in dto.RegisterPaymentRequest,
) (*dto.InvoicePaymentResponse, error) {
	method := entity.PaymentMethod(in.Method)
	if !entity.ValidPaymentMethod(method) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	inv, err := invoiceRepo.GetForUpdate(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	switch inv.Status {
	case entity.InvoiceStatusPaid:
		return nil, domain.ErrInvoiceAlreadyPaid
	case entity.InvoiceStatusPending, entity.InvoiceStatusPartiallyPaid:
		// abonable
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.GreaterThan(inv.Remaining()) {
		return nil, domain.ErrOverPayment
	}

	now := time.Now()
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	inv.PaidAmount = inv.PaidAmount.Add(in.Amount)
	inv.Status = inv.DeriveStatus()
	if err := invoiceRepo.UpdatePaid(inv); err != nil {
		return nil, err
	}

	payment := &entity.PurchaseInvoicePayment{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		Amount:    in.Amount,
		Method:    method,
		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := invoiceRepo.CreatePayment(payment); err != nil {
		return nil, err
	}

	if err := ledgerRepo.Create(&entity.LedgerEntry{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Date:      paidAt,
		Type:      entity.LedgerExpense,
		Amount:    in.Amount,
		RefKind:   entity.RefInvoice,
		RefID:     invoiceID,
		Method:    method,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return &dto.InvoicePaymentResponse{
		ID:     payment.ID,
		Amount: payment.Amount,
		Method: string(payment.Method),
		PaidAt: payment.PaidAt,
	}, nil
}
