package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// confirmSale deja confirmada una venta de qty unidades de productID y
// devuelve su ID.
func confirmSale(t *testing.T, uc *sales.SaleUseCase, store *memory.Store, productID, qty string) string {
	t.Helper()
	p, err := store.Products.GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	total := p.Price.Mul(dec(qty))
	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{productID: dec(qty)}, cashTender(total.String()), "")
	require.NoError(t, err)
	return resp.SaleID
}

func adjustLines(lines ...dto.AdjustSaleLineRequest) dto.AdjustSaleRequest {
	return dto.AdjustSaleRequest{Lines: lines}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_ReducirCantidadDevuelveStock(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "10")

	// 20 - 10 vendidas = 10 en stock. Ajustar a 3 devuelve 7.
	err := uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("3")}))
	require.NoError(t, err)

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("17")))

	sale, _ := store.Sales.GetByID(saleID)
	assert.True(t, sale.Total.Equal(dec("300")), "el total se recalcula con las nuevas líneas")
}

func TestAdjust_IdaYVueltaSinResiduo(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "10")

	// 10 → 3 → 10: el saldo y el total deben volver exactamente al origen.
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("3")})))
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("10")})))

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("10")))

	sale, _ := store.Sales.GetByID(saleID)
	assert.True(t, sale.Total.Equal(dec("1000")))

	// El neto del libro debe seguir siendo el total original: el asiento de
	// la venta más los dos compensatorios (-700, +700).
	entries, err := store.Ledger.ListByRef(testTenantID, entity.RefSale, saleID)
	require.NoError(t, err)
	net := decimal.Zero
	for _, e := range entries {
		if e.Type == entity.LedgerIncome {
			net = net.Add(e.Amount)
		} else {
			net = net.Sub(e.Amount)
		}
	}
	assert.True(t, net.Equal(dec("1000")))
}

func TestAdjust_AumentoValidaDisponibilidad(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	saleID := confirmSale(t, uc, store, "p1", "8")

	// Quedan 2 en stock; subir la venta de 8 a 15 pide 7 más: insuficiente.
	err := uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("15")}))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió.
	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("2")))
	sale, _ := store.Sales.GetByID(saleID)
	assert.True(t, sale.Total.Equal(dec("800")))
}

func TestAdjust_PrecioCapturadoSeConserva(t *testing.T) {
	store, uc := newSaleEnv(t)
	p := seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "5")

	// El catálogo sube de precio después de la venta.
	p.Price = dec("999")
	require.NoError(t, store.Products.Update(p))

	// Ajustar sin declarar precio conserva el capturado en la venta.
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("7")})))

	lines, _ := store.Sales.ListLines(saleID)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(dec("100")))
}

func TestAdjust_ProductoNuevoTomaPrecioVigente(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	seedProduct(t, store, testTenantID, "p2", "SKU-2", "250", "20")
	saleID := confirmSale(t, uc, store, "p1", "2")

	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(
			dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("2")},
			dto.AdjustSaleLineRequest{ProductID: "p2", Quantity: dec("1")},
		)))

	sale, _ := store.Sales.GetByID(saleID)
	assert.True(t, sale.Total.Equal(dec("450")))

	bal2, _ := store.Stock.Get(testTenantID, "p2")
	assert.True(t, bal2.OnHand.Equal(dec("19")), "el producto agregado descuenta stock")
}

func TestAdjust_PrecioCeroExplicitoEsCortesia(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "5")

	// Un cero declarado es un precio válido; solo la ausencia conserva el
	// precio capturado.
	zero := decimal.Zero
	require.NoError(t, uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("5"), UnitPrice: &zero})))

	lines, _ := store.Sales.ListLines(saleID)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.Zero))

	sale, _ := store.Sales.GetByID(saleID)
	assert.True(t, sale.Total.Equal(decimal.Zero))
}

func TestAdjust_PrecioNegativoRechazado(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "2")

	neg := dec("-1")
	err := uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("2"), UnitPrice: &neg}))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_VentaAnulada(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "2")

	sale, _ := store.Sales.GetByID(saleID)
	sale.Status = entity.SaleStatusCancelled
	require.NoError(t, store.Sales.UpdateTotals(sale))

	err := uc.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("1")}))
	require.ErrorIs(t, err, domain.ErrSaleCancelled)
}

func TestAdjust_VentaDeOtroTenant(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "2")

	err := uc.Adjust(context.Background(), otherTenant, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("1")}))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_SinLineas(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "20")
	saleID := confirmSale(t, uc, store, "p1", "2")

	err := uc.Adjust(context.Background(), testTenantID, saleID, dto.AdjustSaleRequest{})
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carreras contra la reversión
// ──────────────────────────────────────────────────────────────────────────────

// revertBeforeTxRunner deja que una reversión completa de la venta gane la
// carrera justo antes de que la transacción de la operación comience.
type revertBeforeTxRunner struct {
	store   *memory.Store
	deleter *sales.SaleUseCase
	saleID  string
	fired   bool
}

func (r *revertBeforeTxRunner) Run(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	ledgerRepo repository.LedgerRepository,
	draftRepo repository.SaleDraftRepository,
	productRepo repository.ProductRepository,
) error) error {
	if !r.fired {
		r.fired = true
		if err := r.deleter.Delete(ctx, testTenantID, r.saleID); err != nil {
			return err
		}
	}
	return r.store.Run(ctx, fn)
}

func newRacingEnv(t *testing.T, store *memory.Store, uc *sales.SaleUseCase, saleID string) *sales.SaleUseCase {
	t.Helper()
	runner := &revertBeforeTxRunner{store: store, deleter: uc, saleID: saleID}
	return sales.NewSaleUseCase(
		runner, store.Sales, store.Products, store.Drafts, store.Tenants,
		nil, nil, logger.Nop(),
	)
}

func TestAdjust_VentaRevertidaEnCarreraNoDejaResiduo(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	saleID := confirmSale(t, uc, store, "p1", "4")

	// El pre-chequeo fuera de la tx ve la venta viva; el re-chequeo bajo lock
	// la encuentra revertida y aborta sin escribir nada.
	racing := newRacingEnv(t, store, uc, saleID)
	err := racing.Adjust(context.Background(), testTenantID, saleID,
		adjustLines(dto.AdjustSaleLineRequest{ProductID: "p1", Quantity: dec("2")}))
	require.ErrorIs(t, err, domain.ErrNotFound)

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("10")), "la reversión queda intacta")

	lines, _ := store.Sales.ListLines(saleID)
	assert.Empty(t, lines, "sin líneas huérfanas")
	movs, _ := store.Movements.ListByRef(testTenantID, entity.RefSale, saleID)
	assert.Empty(t, movs, "sin movimiento ADJUST huérfano")
	entries, _ := store.Ledger.ListByRef(testTenantID, entity.RefSale, saleID)
	assert.Empty(t, entries, "sin asiento huérfano")
}

func TestDelete_VentaRevertidaEnCarreraNoDuplicaStock(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	saleID := confirmSale(t, uc, store, "p1", "4")

	racing := newRacingEnv(t, store, uc, saleID)
	err := racing.Delete(context.Background(), testTenantID, saleID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Una sola restauración: el saldo vuelve a 10, no a 14.
	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión total
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_RestauraStockYEliminaRastros(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	saleID := confirmSale(t, uc, store, "p1", "4")

	require.NoError(t, uc.Delete(context.Background(), testTenantID, saleID))

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("10")), "la reversión devuelve todo el stock")

	sale, err := store.Sales.GetByID(saleID)
	require.NoError(t, err)
	assert.Nil(t, sale)

	entries, _ := store.Ledger.ListByRef(testTenantID, entity.RefSale, saleID)
	assert.Empty(t, entries, "el libro no conserva asientos de la venta revertida")

	movs, _ := store.Movements.ListByRef(testTenantID, entity.RefSale, saleID)
	assert.Empty(t, movs)
}

func TestDelete_VentaInexistente(t *testing.T) {
	_, uc := newSaleEnv(t)
	err := uc.Delete(context.Background(), testTenantID, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_VentaDeOtroTenant(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	saleID := confirmSale(t, uc, store, "p1", "1")

	err := uc.Delete(context.Background(), otherTenant, saleID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
