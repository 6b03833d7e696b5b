package sales_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Invariante saldo == Σ movimientos
// ──────────────────────────────────────────────────────────────────────────────

// seedStockConMovimiento carga stock inicial dejando rastro en el log de
// movimientos, para que la proyección y su fuente partan cuadradas.
func seedStockConMovimiento(t *testing.T, store *memory.Store, productID, qty string) {
	t.Helper()
	movID := "mov-seed-" + productID
	now := time.Now()
	require.NoError(t, store.Movements.Create(&entity.StockMovement{
		ID: movID, TenantID: testTenantID,
		Kind: entity.MovementKindIn, RefKind: entity.RefManual, RefID: "carga-inicial",
		Date: now, CreatedAt: now,
	}))
	require.NoError(t, store.Movements.CreateLine(&entity.StockMovementLine{
		ID: "movl-seed-" + productID, MovementID: movID,
		ProductID: productID, Quantity: dec(qty),
	}))
	_, err := store.Stock.LockBalances(testTenantID, []string{productID})
	require.NoError(t, err)
	require.NoError(t, store.Stock.ApplyDelta(testTenantID, productID, dec(qty)))
}

// requireSaldoCuadra verifica que la proyección OnHand coincida con la suma
// firmada de las líneas de movimiento del producto.
func requireSaldoCuadra(t *testing.T, store *memory.Store, productID string) {
	t.Helper()
	sum, err := store.Movements.SumByProduct(testTenantID, productID)
	require.NoError(t, err)
	bal, err := store.Stock.Get(testTenantID, productID)
	require.NoError(t, err)
	require.True(t, bal.OnHand.Equal(sum),
		"saldo %s no cuadra con la suma de movimientos %s", bal.OnHand, sum)
}

func TestStock_SaldoCuadraConMovimientosEnTodoElCiclo(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "0")
	seedStockConMovimiento(t, store, "p1", "10")
	requireSaldoCuadra(t, store, "p1")

	// Venta: OUT de 4.
	saleID := confirmSale(t, uc, store, "p1", "4")
	requireSaldoCuadra(t, store, "p1")

	// Ajuste hacia abajo: ADJUST devuelve 3.
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("1")})))
	requireSaldoCuadra(t, store, "p1")

	// Ajuste hacia arriba: ADJUST consume 5 más.
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("6")})))
	requireSaldoCuadra(t, store, "p1")

	// Reversión total: los movimientos de la venta desaparecen con el stock
	// restaurado, y la carga inicial vuelve a ser la única fuente.
	require.NoError(t, uc.Delete(context.Background(), testTenantID, saleID))
	requireSaldoCuadra(t, store, "p1")

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de bloqueo
// ──────────────────────────────────────────────────────────────────────────────

// lockRecorder registra cada llamada a LockBalances antes de delegarla.
type lockRecorder struct {
	repository.StockRepository
	calls [][]string
}

func (r *lockRecorder) LockBalances(tenantID string, productIDs []string) (map[string]*entity.StockBalance, error) {
	r.calls = append(r.calls, append([]string(nil), productIDs...))
	return r.StockRepository.LockBalances(tenantID, productIDs)
}

// recordingTxRunner interpone el lockRecorder sobre el repo de stock de la
// transacción.
type recordingTxRunner struct {
	store *memory.Store
	rec   *lockRecorder
}

func (r *recordingTxRunner) Run(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	ledgerRepo repository.LedgerRepository,
	draftRepo repository.SaleDraftRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.store.Run(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		ledgerRepo repository.LedgerRepository,
		draftRepo repository.SaleDraftRepository,
		productRepo repository.ProductRepository,
	) error {
		r.rec.StockRepository = stockRepo
		return fn(saleRepo, r.rec, movRepo, ledgerRepo, draftRepo, productRepo)
	})
}

func newRecordingEnv(t *testing.T) (*memory.Store, *sales.SaleUseCase, *lockRecorder) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: testTenantID, Name: "Tienda Test"}))
	rec := &lockRecorder{}
	uc := sales.NewSaleUseCase(
		&recordingTxRunner{store: store, rec: rec},
		store.Sales, store.Products, store.Drafts, store.Tenants,
		nil, nil, logger.Nop(),
	)
	return store, uc, rec
}

func TestConfirm_BloqueaSaldosEnOrdenEstable(t *testing.T) {
	store, uc, rec := newRecordingEnv(t)
	seedProduct(t, store, testTenantID, "pz", "SKU-Z", "100", "10")
	seedProduct(t, store, testTenantID, "pa", "SKU-A", "100", "10")
	seedProduct(t, store, testTenantID, "pm", "SKU-M", "100", "10")

	cart := map[string]decimal.Decimal{
		"pz": dec("1"), "pa": dec("1"), "pm": dec("1"),
	}
	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		cart, cashTender("300"), "")
	require.NoError(t, err)

	// El orden del mapa del carrito es arbitrario; el lock siempre va en el
	// mismo orden para que dos ventas concurrentes no se bloqueen cruzado.
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"pa", "pm", "pz"}, rec.calls[0])
	assert.True(t, sort.StringsAreSorted(rec.calls[0]))
}

func TestAdjust_BloqueaSaldosEnOrdenEstable(t *testing.T) {
	store, uc, rec := newRecordingEnv(t)
	seedProduct(t, store, testTenantID, "pz", "SKU-Z", "100", "10")
	seedProduct(t, store, testTenantID, "pa", "SKU-A", "100", "10")
	seedProduct(t, store, testTenantID, "pm", "SKU-M", "100", "10")

	cart := map[string]decimal.Decimal{"pz": dec("2"), "pa": dec("2")}
	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		cart, cashTender("400"), "")
	require.NoError(t, err)

	rec.calls = nil
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, resp.SaleID,
		adjustLines(
			dto.AdjustSaleLineRequest{ProductID: "pz", Quantity: dec("1")},
			dto.AdjustSaleLineRequest{ProductID: "pm", Quantity: dec("1")},
			dto.AdjustSaleLineRequest{ProductID: "pa", Quantity: dec("2")},
		)))

	// Participan solo los productos con delta distinto de cero, ordenados.
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"pm", "pz"}, rec.calls[0])
}
