package sales

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

// SaleUseCase concentra las transacciones de venta del punto de venta:
// confirmación (con idempotencia y pagos mixtos), ajuste y reversión.
// Toda mutación pasa por el protocolo de bloqueo de StockRepository y escribe
// venta, movimiento de stock y asientos de caja en la misma transacción.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	draftRepo   repository.SaleDraftRepository
	tenantRepo  repository.TenantRepository
	cache       ReportCache      // opcional
	receipts    ReceiptGenerator // opcional
	log         *logger.Logger
}

// NewSaleUseCase construye el caso de uso. cache y receipts pueden ser nil.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	draftRepo repository.SaleDraftRepository,
	tenantRepo repository.TenantRepository,
	cache ReportCache,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		draftRepo:   draftRepo,
		tenantRepo:  tenantRepo,
		cache:       cache,
		receipts:    receipts,
		log:         log,
	}
}

// tender un pago ya validado, con cambio calculado.
type tender struct {
	method       entity.PaymentMethod
	amount       decimal.Decimal
	cashReceived decimal.Decimal
	cashChange   decimal.Decimal
}

// parseTenders valida el desglose de pagos declarado por el cliente.
func parseTenders(in []dto.TenderRequest) ([]tender, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]tender, 0, len(in))
	for _, t := range in {
		method := entity.PaymentMethod(t.Method)
		if !entity.ValidPaymentMethod(method) {
			return nil, domain.ErrInvalidInput
		}
		if !t.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		td := tender{method: method, amount: t.Amount}
		if method == entity.PaymentCash {
			received := t.CashReceived
			if received.IsZero() {
				received = t.Amount // pago exacto
			}
			if received.LessThan(t.Amount) {
				return nil, domain.ErrInvalidInput
			}
			td.cashReceived = received
			td.cashChange = received.Sub(t.Amount)
		}
		out = append(out, td)
	}
	return out, nil
}

// ConfirmDraft confirma el carrito durable del usuario autenticado.
// Adaptador sobre Confirm: carga las líneas del draft y delega.
func (uc *SaleUseCase) ConfirmDraft(ctx context.Context, tenantID, userID string, in dto.ConfirmSaleRequest) (*dto.ConfirmSaleResponse, error) {
	draft, err := uc.draftRepo.GetOrCreate(tenantID, userID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.draftRepo.ListLines(draft.ID)
	if err != nil {
		return nil, err
	}
	cart := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		cart[l.ProductID] = l.Quantity
	}
	return uc.Confirm(ctx, tenantID, userID, cart, in.Tenders, in.IdempotencyKey)
}

// Confirm ejecuta el protocolo de confirmación de venta:
//
//  1. Rechaza claves de idempotencia ya usadas (exactamente-una-vez).
//  2. Resuelve y valida productos: del tenant y activos.
//  3. Bloquea los saldos de TODOS los productos (IDs ordenados) en la tx.
//  4. Captura el precio vigente y exige que los pagos cuadren exactos.
//  5. Valida disponibilidad todo-o-nada (exentos los de stock ilimitado).
//  6. Inserta venta, líneas, pagos, movimiento OUT y un asiento INCOME por
//     medio de pago, todo en la misma transacción.
//  7. Ante cualquier fallo: rollback completo, sin estado parcial observable.
//  8. En éxito elimina el carrito de origen.
func (uc *SaleUseCase) Confirm(ctx context.Context, tenantID, userID string, cart map[string]decimal.Decimal, tenderReqs []dto.TenderRequest, idemKey string) (*dto.ConfirmSaleResponse, error) {
	if len(cart) == 0 {
		return nil, domain.ErrEmptyCart
	}
	ids := make([]string, 0, len(cart))
	for id, qty := range cart {
		if !qty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if idemKey != "" {
		existing, err := uc.saleRepo.GetByIdempotencyKey(tenantID, idemKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateSubmission
		}
	}

	products, err := uc.resolveProducts(tenantID, ids)
	if err != nil {
		return nil, err
	}

	// Precio capturado al confirmar, no al agregar al carrito.
	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(cart[id].Mul(products[id].Price))
	}

	tenders, err := parseTenders(tenderReqs)
	if err != nil {
		return nil, err
	}
	declared := decimal.Zero
	for _, t := range tenders {
		declared = declared.Add(t.amount)
	}
	// Conciliación exacta, sin tolerancia de redondeo: la diferencia es error
	// del cliente, no del sistema.
	if !declared.Equal(total) {
		return nil, domain.ErrTenderMismatch
	}

	now := time.Now()
	saleID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
		draftRepo repository.SaleDraftRepository,
		_ repository.ProductRepository,
	) error {
		balances, err := stockRepo.LockBalances(tenantID, ids)
		if err != nil {
			return err
		}
		// Con los locks tomados: validación todo-o-nada antes de escribir.
		for _, id := range ids {
			bal, ok := balances[id]
			if !ok {
				return domain.ErrNotFound
			}
			if !products[id].UnlimitedStock && bal.OnHand.LessThan(cart[id]) {
				return domain.ErrInsufficientStock
			}
		}

		sale := &entity.Sale{
			ID:             saleID,
			TenantID:       tenantID,
			Date:           now,
			Total:          total,
			Status:         entity.SaleStatusConfirmed,
			IdempotencyKey: idemKey,
			AmountPaid:     total,
			PaymentStatus:  entity.PaymentStatusPaid,
			CreatedAt:      now,
			CreatedBy:      userID,
		}
		// Si dos confirmaciones con la misma clave llegan a la vez, una pierde
		// la carrera del índice único y el repo la traduce a
		// ErrDuplicateSubmission.
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, id := range ids {
			qty := cart[id]
			if err := saleRepo.CreateLine(&entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: id,
				Quantity:  qty,
				UnitPrice: products[id].Price,
				LineTotal: qty.Mul(products[id].Price),
			}); err != nil {
				return err
			}
		}
		for _, t := range tenders {
			if err := saleRepo.CreatePayment(&entity.SalePayment{
				ID:           uuid.New().String(),
				SaleID:       saleID,
				Method:       t.method,
				Amount:       t.amount,
				CashReceived: t.cashReceived,
				CashChange:   t.cashChange,
			}); err != nil {
				return err
			}
		}

		if err := writeOutMovement(stockRepo, movRepo, tenantID, userID, saleID, ids, cart, now); err != nil {
			return err
		}

		// Un asiento INCOME por medio de pago: una venta mixta efectivo +
		// transferencia produce dos filas, preservando el reporte de caja
		// por medio.
		byMethod := map[entity.PaymentMethod]decimal.Decimal{}
		var methods []entity.PaymentMethod
		for _, t := range tenders {
			if _, ok := byMethod[t.method]; !ok {
				methods = append(methods, t.method)
			}
			byMethod[t.method] = byMethod[t.method].Add(t.amount)
		}
		for _, m := range methods {
			if err := ledgerRepo.Create(&entity.LedgerEntry{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				Date:      now,
				Type:      entity.LedgerIncome,
				Amount:    byMethod[m],
				RefKind:   entity.RefSale,
				RefID:     saleID,
				Method:    m,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		// El carrito de origen se descarta, no se archiva.
		return draftRepo.Delete(tenantID, userID)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateReports(ctx, tenantID)
	return &dto.ConfirmSaleResponse{SaleID: saleID, Total: total}, nil
}

// resolveProducts carga y valida los productos del carrito: deben existir en
// el tenant (un ID ajeno se reporta como no encontrado, nunca como "de otro
// tenant") y estar activos.
func (uc *SaleUseCase) resolveProducts(tenantID string, ids []string) (map[string]*entity.Product, error) {
	found, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if !p.Active {
			return nil, domain.ErrProductInactive
		}
	}
	return products, nil
}

// writeOutMovement inserta el movimiento OUT con una línea por producto y
// aplica el delta al saldo en la misma unidad de trabajo.
func writeOutMovement(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	tenantID, userID, saleID string,
	ids []string,
	cart map[string]decimal.Decimal,
	now time.Time,
) error {
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Kind:      entity.MovementKindOut,
		RefKind:   entity.RefSale,
		RefID:     saleID,
		Date:      now,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	for _, id := range ids {
		qty := cart[id]
		if err := movRepo.CreateLine(&entity.StockMovementLine{
			ID:         uuid.New().String(),
			MovementID: mov.ID,
			ProductID:  id,
			Quantity:   qty.Neg(),
		}); err != nil {
			return err
		}
		if err := stockRepo.ApplyDelta(tenantID, id, qty.Neg()); err != nil {
			return err
		}
	}
	return nil
}

// invalidateReports invalida el caché de reportes del tenant. Best-effort:
// un fallo se registra y se sigue; jamás afecta la transacción ya confirmada.
func (uc *SaleUseCase) invalidateReports(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateTenant(ctx, tenantID); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("invalidar caché de reportes")
	}
}
