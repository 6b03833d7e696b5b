package sales

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Delete revierte por completo una venta confirmada: devuelve cada cantidad
// vendida al stock y elimina, en una sola transacción, los asientos de caja,
// el movimiento con sus líneas, los pagos, las líneas y la venta misma.
// No valida disponibilidad: la reversión solo aumenta stock, pero igual toma
// los locks para serializar la escritura del saldo.
func (uc *SaleUseCase) Delete(ctx context.Context, tenantID, saleID string) error {
	// Pre-chequeo barato fuera de la tx; el chequeo que vale es el de adentro.
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if err := adjustable(sale, tenantID); err != nil {
		return err
	}

	err = uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.SaleDraftRepository,
		_ repository.ProductRepository,
	) error {
		// Re-chequeo bajo lock: dos reversiones simultáneas (o una reversión
		// contra un ajuste) se serializan en la fila de la venta.
		locked, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if err := adjustable(locked, tenantID); err != nil {
			return err
		}

		lines, err := saleRepo.ListLines(saleID)
		if err != nil {
			return err
		}
		qtyByProduct := make(map[string]decimal.Decimal, len(lines))
		for _, l := range lines {
			qtyByProduct[l.ProductID] = qtyByProduct[l.ProductID].Add(l.Quantity)
		}
		ids := make([]string, 0, len(qtyByProduct))
		for id := range qtyByProduct {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		if len(ids) > 0 {
			if _, err := stockRepo.LockBalances(tenantID, ids); err != nil {
				return err
			}
			for _, id := range ids {
				if err := stockRepo.ApplyDelta(tenantID, id, qtyByProduct[id]); err != nil {
					return err
				}
			}
		}

		if err := ledgerRepo.DeleteByRef(tenantID, entity.RefSale, saleID); err != nil {
			return err
		}
		if err := movRepo.DeleteByRef(tenantID, entity.RefSale, saleID); err != nil {
			return err
		}
		if err := saleRepo.DeletePayments(saleID); err != nil {
			return err
		}
		if err := saleRepo.DeleteLines(saleID); err != nil {
			return err
		}
		return saleRepo.Delete(saleID)
	})
	if err != nil {
		return err
	}

	uc.invalidateReports(ctx, tenantID)
	return nil
}
