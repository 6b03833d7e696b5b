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
)

// Adjust reemplaza el conjunto de líneas de una venta confirmada (corrección
// de errores de digitación). Relee la venta bajo lock de fila dentro de la
// transacción, calcula el delta por producto entre cantidades viejas y
// nuevas, bloquea solo los productos con delta distinto de cero, valida
// disponibilidad únicamente para los aumentos, reescribe líneas y total, y
// emite un movimiento ADJUST compensatorio más un asiento de caja por la
// diferencia firmada del total. El asiento original nunca se edita: el libro
// es historial, no un saldo mutable.
func (uc *SaleUseCase) Adjust(ctx context.Context, tenantID, saleID string, in dto.AdjustSaleRequest) error {
	// Pre-chequeo barato fuera de la tx; el chequeo que vale es el de adentro.
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if err := adjustable(sale, tenantID); err != nil {
		return err
	}

	if len(in.Lines) == 0 {
		return domain.ErrEmptyCart
	}
	newQty := make(map[string]decimal.Decimal, len(in.Lines))
	reqPrice := make(map[string]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if _, dup := newQty[l.ProductID]; dup {
			return domain.ErrInvalidInput
		}
		if l.UnitPrice != nil {
			if l.UnitPrice.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			reqPrice[l.ProductID] = *l.UnitPrice
		}
		newQty[l.ProductID] = l.Quantity
	}

	now := time.Now()

	err = uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.SaleDraftRepository,
		productRepo repository.ProductRepository,
	) error {
		// Re-chequeo bajo lock: un ajuste que corre contra una reversión o
		// contra otro ajuste se serializa en la fila de la venta.
		locked, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if err := adjustable(locked, tenantID); err != nil {
			return err
		}

		oldLines, err := saleRepo.ListLines(saleID)
		if err != nil {
			return err
		}
		oldQty := make(map[string]decimal.Decimal, len(oldLines))
		oldPrice := make(map[string]decimal.Decimal, len(oldLines))
		for _, l := range oldLines {
			oldQty[l.ProductID] = l.Quantity
			oldPrice[l.ProductID] = l.UnitPrice
		}

		// Unión de productos viejos y nuevos, en orden estable.
		union := make(map[string]struct{}, len(newQty)+len(oldQty))
		for id := range newQty {
			union[id] = struct{}{}
		}
		for id := range oldQty {
			union[id] = struct{}{}
		}
		unionIDs := make([]string, 0, len(union))
		for id := range union {
			unionIDs = append(unionIDs, id)
		}
		sort.Strings(unionIDs)

		found, err := productRepo.ListByIDs(tenantID, unionIDs)
		if err != nil {
			return err
		}
		products := make(map[string]*entity.Product, len(found))
		for _, p := range found {
			products[p.ID] = p
		}
		for _, id := range unionIDs {
			if _, ok := products[id]; !ok {
				return domain.ErrNotFound
			}
		}

		// Precio por línea nueva: el declarado, o el ya capturado en la venta,
		// o el vigente del catálogo para productos nuevos en la venta.
		price := make(map[string]decimal.Decimal, len(newQty))
		newTotal := decimal.Zero
		for id, qty := range newQty {
			p, declared := reqPrice[id]
			if !declared {
				if prev, ok := oldPrice[id]; ok {
					p = prev
				} else {
					p = products[id].Price
				}
			}
			price[id] = p
			newTotal = newTotal.Add(qty.Mul(p))
		}

		// Deltas por producto; solo los distintos de cero participan del lock.
		delta := make(map[string]decimal.Decimal)
		var deltaIDs []string
		for _, id := range unionIDs {
			d := newQty[id].Sub(oldQty[id]) // cero implícito si falta en un lado
			if !d.IsZero() {
				delta[id] = d
				deltaIDs = append(deltaIDs, id)
			}
		}

		// Medio de pago del asiento compensatorio: el del primer pago de la
		// venta (vacío si la venta quedó a crédito).
		payments, err := saleRepo.ListPayments(saleID)
		if err != nil {
			return err
		}
		var ledgerMethod entity.PaymentMethod
		if len(payments) > 0 {
			ledgerMethod = payments[0].Method
		}

		if len(deltaIDs) > 0 {
			balances, err := stockRepo.LockBalances(tenantID, deltaIDs)
			if err != nil {
				return err
			}
			// Solo los aumentos consumen stock adicional; las reducciones
			// siempre proceden.
			for _, id := range deltaIDs {
				d := delta[id]
				if !d.GreaterThan(decimal.Zero) || products[id].UnlimitedStock {
					continue
				}
				bal, ok := balances[id]
				if !ok {
					return domain.ErrNotFound
				}
				if bal.OnHand.LessThan(d) {
					return domain.ErrInsufficientStock
				}
			}
		}

		if err := saleRepo.DeleteLines(saleID); err != nil {
			return err
		}
		for _, l := range in.Lines {
			qty := newQty[l.ProductID]
			if err := saleRepo.CreateLine(&entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: l.ProductID,
				Quantity:  qty,
				UnitPrice: price[l.ProductID],
				LineTotal: qty.Mul(price[l.ProductID]),
			}); err != nil {
				return err
			}
		}

		oldTotal := locked.Total
		locked.Total = newTotal
		locked.PaymentStatus = locked.DerivePaymentStatus()
		if err := saleRepo.UpdateTotals(locked); err != nil {
			return err
		}

		if len(deltaIDs) > 0 {
			mov := &entity.StockMovement{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				Kind:      entity.MovementKindAdjust,
				RefKind:   entity.RefSale,
				RefID:     saleID,
				Date:      now,
				CreatedAt: now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			for _, id := range deltaIDs {
				// Vender más = consumir más stock: el signo de la línea es el
				// inverso del delta vendido.
				if err := movRepo.CreateLine(&entity.StockMovementLine{
					ID:         uuid.New().String(),
					MovementID: mov.ID,
					ProductID:  id,
					Quantity:   delta[id].Neg(),
				}); err != nil {
					return err
				}
				if err := stockRepo.ApplyDelta(tenantID, id, delta[id].Neg()); err != nil {
					return err
				}
			}
		}

		diff := newTotal.Sub(oldTotal)
		if !diff.IsZero() {
			entry := &entity.LedgerEntry{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				Date:      now,
				RefKind:   entity.RefSale,
				RefID:     saleID,
				Method:    ledgerMethod,
				CreatedAt: now,
			}
			if diff.GreaterThan(decimal.Zero) {
				entry.Type = entity.LedgerIncome
				entry.Amount = diff
			} else {
				entry.Type = entity.LedgerExpense
				entry.Amount = diff.Abs()
			}
			if err := ledgerRepo.Create(entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidateReports(ctx, tenantID)
	return nil
}

// adjustable valida que la venta exista, sea del tenant y esté en un estado
// editable.
func adjustable(sale *entity.Sale, tenantID string) error {
	if sale == nil || sale.TenantID != tenantID {
		return domain.ErrNotFound
	}
	switch sale.Status {
	case entity.SaleStatusConfirmed:
		return nil
	case entity.SaleStatusCancelled:
		return domain.ErrSaleCancelled
	default:
		return domain.ErrInvalidInput
	}
}
