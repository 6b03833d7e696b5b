package purchasing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// InvoiceUseCase ciclo de vida de facturas de compra: creación (entrada de
// stock) y registro de abonos parciales o totales.
type InvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.PurchaseInvoiceRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	cache        ReportCache // opcional
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. cache puede ser nil.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.PurchaseInvoiceRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	cache ReportCache,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		cache:        cache,
		log:          log,
	}
}

// Create crea la factura de compra y su entrada de stock en una sola
// transacción: factura + líneas + StockMovement(IN) con el saldo actualizado.
// Rechaza números duplicados por (tenant, proveedor), tanto en el pre-chequeo
// como traduciendo la carrera del índice único al confirmar.
func (uc *InvoiceUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.SupplierID == "" || in.Number == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	qtyByProduct := make(map[string]decimal.Decimal, len(in.Lines))
	costByProduct := make(map[string]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := qtyByProduct[l.ProductID]; dup {
			return nil, domain.ErrInvalidInput
		}
		qtyByProduct[l.ProductID] = l.Quantity
		costByProduct[l.ProductID] = l.UnitCost
	}
	ids := make([]string, 0, len(qtyByProduct))
	for id := range qtyByProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	found, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.invoiceRepo.GetByNumber(tenantID, in.SupplierID, in.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateInvoiceNumber
	}

	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(qtyByProduct[id].Mul(costByProduct[id]))
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	invoiceID := uuid.New().String()
	inv := &entity.PurchaseInvoice{
		ID:          invoiceID,
		TenantID:    tenantID,
		SupplierID:  in.SupplierID,
		Number:      in.Number,
		Date:        date,
		TotalAmount: total,
		PaidAmount:  decimal.Zero,
		Status:      entity.InvoiceStatusPending,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	var lines []*entity.PurchaseInvoiceLine

	err = uc.txRunner.RunPurchasing(ctx, func(
		invoiceRepo repository.PurchaseInvoiceRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.LedgerRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, id := range ids {
			line := &entity.PurchaseInvoiceLine{
				ID:        uuid.New().String(),
				InvoiceID: invoiceID,
				ProductID: id,
				Quantity:  qtyByProduct[id],
				UnitCost:  costByProduct[id],
				LineTotal: qtyByProduct[id].Mul(costByProduct[id]),
			}
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}

		// Entrada de stock: también pasa por el protocolo de bloqueo, aunque
		// solo sume, para serializar la escritura del saldo.
		if _, err := stockRepo.LockBalances(tenantID, ids); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Kind:      entity.MovementKindIn,
			RefKind:   entity.RefInvoice,
			RefID:     invoiceID,
			Date:      date,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		for _, id := range ids {
			if err := movRepo.CreateLine(&entity.StockMovementLine{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				ProductID:  id,
				Quantity:   qtyByProduct[id],
				UnitCost:   costByProduct[id],
			}); err != nil {
				return err
			}
			if err := stockRepo.ApplyDelta(tenantID, id, qtyByProduct[id]); err != nil {
				return err
			}
		}
		// El gasto se reconoce al pagar, no al crear: sin asiento aquí.
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateReports(ctx, tenantID)
	return toInvoiceResponse(inv, lines, nil), nil
}

func (uc *InvoiceUseCase) invalidateReports(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateTenant(ctx, tenantID); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("invalidar caché de reportes")
	}
}

// Get devuelve la factura con líneas y abonos.
func (uc *InvoiceUseCase) Get(ctx context.Context, tenantID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.ListLines(invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.invoiceRepo.ListPayments(invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines, payments), nil
}

func toInvoiceResponse(inv *entity.PurchaseInvoice, lines []*entity.PurchaseInvoiceLine, payments []*entity.PurchaseInvoicePayment) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		SupplierID:  inv.SupplierID,
		Number:      inv.Number,
		Date:        inv.Date,
		TotalAmount: inv.TotalAmount,
		PaidAmount:  inv.PaidAmount,
		Status:      string(inv.Status),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			LineTotal: l.LineTotal,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.InvoicePaymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: string(p.Method),
			PaidAt: p.PaidAt,
		})
	}
	return resp
}
