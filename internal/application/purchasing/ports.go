package purchasing

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos que
// necesita el ciclo de facturas de compra.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		invoiceRepo repository.PurchaseInvoiceRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// ReportCache invalidación del caché de reportes del tenant (best-effort).
type ReportCache interface {
	InvalidateTenant(ctx context.Context, tenantID string) error
}
