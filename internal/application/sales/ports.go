package sales

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: si fn retorna error se
// hace rollback completo y ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
		draftRepo repository.SaleDraftRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ReportCache invalidación del caché de reportes, siempre acotada al tenant.
// Es best-effort: un fallo aquí jamás revierte ni bloquea la transacción.
type ReportCache interface {
	InvalidateTenant(ctx context.Context, tenantID string) error
}

// ReceiptGenerator genera el tirilla/recibo de una venta confirmada.
// Colaborador fuera de la transacción: sus fallos no afectan la venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(
		ctx context.Context,
		tenant *entity.Tenant,
		sale *entity.Sale,
		lines []*entity.SaleLine,
		payments []*entity.SalePayment,
		productNames map[string]string,
	) ([]byte, error)
}
