package quotes

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos que
// necesita la conversión de cotización: la venta resultante sigue la misma
// disciplina de stock y libro que una venta de caja.
type TxRunner interface {
	RunQuotes(ctx context.Context, fn func(
		quoteRepo repository.QuoteRepository,
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// ReportCache invalidación del caché de reportes del tenant (best-effort).
type ReportCache interface {
	InvalidateTenant(ctx context.Context, tenantID string) error
}
