package quotes

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Convert promueve una cotización a venta bajo la misma disciplina de stock
// y libro que una venta de caja: bloquea los saldos de todos los productos,
// valida disponibilidad todo-o-nada, crea la venta copiando el snapshot de
// precios congelado (no el precio vigente del catálogo), registra el
// movimiento OUT y el asiento INCOME, y deja la cotización en ACCEPTED con
// su sale_id fijado para siempre. La transición es de una sola vía: un
// segundo intento cae en el chequeo de "ya convertida".
func (uc *QuoteUseCase) Convert(ctx context.Context, tenantID, userID, quoteID string) (string, error) {
	quote, err := uc.getOwned(tenantID, quoteID)
	if err != nil {
		return "", err
	}
	if err := convertible(quote, time.Now()); err != nil {
		return "", err
	}

	lines, err := uc.quoteRepo.ListLines(quoteID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", domain.ErrInvalidInput
	}
	qty := make(map[string]decimal.Decimal, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		qty[l.ProductID] = qty[l.ProductID].Add(l.Quantity)
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)

	found, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return "", err
	}
	products := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return "", domain.ErrNotFound
		}
	}

	now := time.Now()
	saleID := uuid.New().String()

	err = uc.txRunner.RunQuotes(ctx, func(
		quoteRepo repository.QuoteRepository,
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Re-chequeo bajo lock: dos conversiones simultáneas se serializan
		// aquí y la segunda falla en "ya convertida".
		locked, err := quoteRepo.GetForUpdate(quoteID)
		if err != nil {
			return err
		}
		if locked == nil || locked.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if err := convertible(locked, now); err != nil {
			return err
		}

		balances, err := stockRepo.LockBalances(tenantID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			bal, ok := balances[id]
			if !ok {
				return domain.ErrNotFound
			}
			if !products[id].UnlimitedStock && bal.OnHand.LessThan(qty[id]) {
				return domain.ErrInsufficientStock
			}
		}

		// Venta a crédito: sin pagos al convertir; el asiento INCOME va por
		// devengo, sin medio de pago.
		sale := &entity.Sale{
			ID:            saleID,
			TenantID:      tenantID,
			Date:          now,
			Total:         locked.TotalAmount,
			Status:        entity.SaleStatusConfirmed,
			AmountPaid:    decimal.Zero,
			PaymentStatus: entity.PaymentStatusPending,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, l := range lines {
			if err := saleRepo.CreateLine(&entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice, // snapshot congelado de la cotización
				LineTotal: l.LineTotal,
			}); err != nil {
				return err
			}
		}

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
			if err := movRepo.CreateLine(&entity.StockMovementLine{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				ProductID:  id,
				Quantity:   qty[id].Neg(),
			}); err != nil {
				return err
			}
			if err := stockRepo.ApplyDelta(tenantID, id, qty[id].Neg()); err != nil {
				return err
			}
		}

		if err := ledgerRepo.Create(&entity.LedgerEntry{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Date:      now,
			Type:      entity.LedgerIncome,
			Amount:    locked.TotalAmount,
			RefKind:   entity.RefSale,
			RefID:     saleID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		return quoteRepo.MarkAccepted(quoteID, saleID)
	})
	if err != nil {
		return "", err
	}

	uc.invalidateReports(ctx, tenantID)
	return saleID, nil
}

// convertible valida la transición: solo DRAFT/SENT, sin venta ligada y sin
// vencer.
func convertible(q *entity.Quote, now time.Time) error {
	switch q.Status {
	case entity.QuoteStatusDraft, entity.QuoteStatusSent:
		// convertible
	case entity.QuoteStatusAccepted:
		return domain.ErrQuoteAlreadyConverted
	case entity.QuoteStatusCanceled:
		return domain.ErrQuoteNotConvertible
	default:
		return domain.ErrInvalidInput
	}
	if q.SaleID != "" {
		return domain.ErrQuoteAlreadyConverted
	}
	if q.Expired(now) {
		return domain.ErrQuoteExpired
	}
	return nil
}
