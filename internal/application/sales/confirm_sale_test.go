package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenantID = "00000000-0000-0000-0000-0000000000t1"
	otherTenant  = "00000000-0000-0000-0000-0000000000t2"
	testUserID   = "00000000-0000-0000-0000-0000000000u1"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newSaleEnv construye el caso de uso sobre el store en memoria, con el
// tenant de prueba ya creado.
func newSaleEnv(t *testing.T) (*memory.Store, *sales.SaleUseCase) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: testTenantID, Name: "Tienda Test"}))
	uc := sales.NewSaleUseCase(
		store, store.Sales, store.Products, store.Drafts, store.Tenants,
		nil, nil, logger.Nop(),
	)
	return store, uc
}

// seedProduct crea un producto del tenant y deja su saldo inicial en onHand.
func seedProduct(t *testing.T, store *memory.Store, tenantID, id, sku, price, onHand string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:       id,
		TenantID: tenantID,
		SKU:      sku,
		Name:     "Producto " + sku,
		Price:    dec(price),
		Active:   true,
	}
	require.NoError(t, store.Products.Create(p))
	if onHand != "0" {
		_, err := store.Stock.LockBalances(tenantID, []string{id})
		require.NoError(t, err)
		require.NoError(t, store.Stock.ApplyDelta(tenantID, id, dec(onHand)))
	}
	return p
}

func cashTender(amount string) []dto.TenderRequest {
	return []dto.TenderRequest{{Method: "CASH", Amount: dec(amount)}}
}

// timeRangeAll rango que cubre cualquier venta creada durante el test.
func timeRangeAll() (time.Time, time.Time) {
	return time.Time{}, time.Now().Add(24 * time.Hour)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_VentaSimpleDescuentaStock(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "1500", "10")

	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("3")}, cashTender("4500"), "")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Total.Equal(dec("4500")), "total = precio vigente * cantidad")

	bal, err := store.Stock.Get(testTenantID, "p1")
	require.NoError(t, err)
	assert.True(t, bal.OnHand.Equal(dec("7")), "el stock debe quedar en 10-3")

	// La venta queda CONFIRMED y pagada en su totalidad.
	sale, err := store.Sales.GetByID(resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, sale.Status)
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.True(t, sale.AmountPaid.Equal(dec("4500")))
}

func TestConfirm_MovimientoYLibroGenerados(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "5")

	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("2")}, cashTender("200"), "")
	require.NoError(t, err)

	movs, err := store.Movements.ListByRef(testTenantID, entity.RefSale, resp.SaleID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindOut, movs[0].Kind)

	lines, err := store.Movements.ListLines(movs[0].ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Quantity.Equal(dec("-2")), "las salidas llevan cantidad negativa")

	entries, err := store.Ledger.ListByRef(testTenantID, entity.RefSale, resp.SaleID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerIncome, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("200")))
	assert.Equal(t, entity.PaymentCash, entries[0].Method)
}

func TestConfirm_PagosMixtosUnAsientoPorMedio(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "1000", "10")

	tenders := []dto.TenderRequest{
		{Method: "CASH", Amount: dec("600")},
		{Method: "CARD", Amount: dec("400")},
	}
	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, tenders, "")
	require.NoError(t, err)

	entries, err := store.Ledger.ListByRef(testTenantID, entity.RefSale, resp.SaleID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "un asiento INCOME por medio de pago")

	byMethod := map[entity.PaymentMethod]decimal.Decimal{}
	for _, e := range entries {
		byMethod[e.Method] = e.Amount
	}
	assert.True(t, byMethod[entity.PaymentCash].Equal(dec("600")))
	assert.True(t, byMethod[entity.PaymentCard].Equal(dec("400")))
}

func TestConfirm_PagosNoCuadran_RechazaSinEscribir(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "1000", "10")

	// Total real: 1000. El cliente declara 999.99: rechazo exacto, sin
	// tolerancia de redondeo.
	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, cashTender("999.99"), "")
	require.ErrorIs(t, err, domain.ErrTenderMismatch)

	bal, err := store.Stock.Get(testTenantID, "p1")
	require.NoError(t, err)
	assert.True(t, bal.OnHand.Equal(dec("10")), "el stock no debe cambiar")
}

func TestConfirm_SobrePagoTambienRechazado(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "1000", "10")

	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, cashTender("1500"), "")
	require.ErrorIs(t, err, domain.ErrTenderMismatch)
}

func TestConfirm_CashRecibidoCalculaCambio(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "750", "10")

	tenders := []dto.TenderRequest{
		{Method: "CASH", Amount: dec("750"), CashReceived: dec("1000")},
	}
	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, tenders, "")
	require.NoError(t, err)

	payments, err := store.Sales.ListPayments(resp.SaleID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].CashReceived.Equal(dec("1000")))
	assert.True(t, payments[0].CashChange.Equal(dec("250")), "cambio = recibido - monto")
}

func TestConfirm_StockInsuficiente_TodoONada(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	seedProduct(t, store, testTenantID, "p2", "SKU-2", "200", "1")

	// p1 alcanza, p2 no: la venta completa se rechaza y NINGÚN saldo cambia.
	cart := map[string]decimal.Decimal{"p1": dec("2"), "p2": dec("5")}
	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		cart, cashTender("1200"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	b1, _ := store.Stock.Get(testTenantID, "p1")
	b2, _ := store.Stock.Get(testTenantID, "p2")
	assert.True(t, b1.OnHand.Equal(dec("10")))
	assert.True(t, b2.OnHand.Equal(dec("1")))

	from, to := timeRangeAll()
	ventas, err := store.Sales.List(testTenantID, from, to)
	require.NoError(t, err)
	assert.Empty(t, ventas, "no debe quedar venta parcial")
}

func TestConfirm_StockIlimitadoExentoDeValidacion(t *testing.T) {
	store, uc := newSaleEnv(t)
	p := &entity.Product{
		ID: "svc1", TenantID: testTenantID, SKU: "SVC-1", Name: "Instalación",
		Price: dec("50000"), UnlimitedStock: true, Active: true,
	}
	require.NoError(t, store.Products.Create(p))

	// Sin saldo previo: el producto ilimitado vende igual y su movimiento
	// queda registrado (el saldo puede quedar negativo).
	resp, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"svc1": dec("2")}, cashTender("100000"), "")
	require.NoError(t, err)

	bal, err := store.Stock.Get(testTenantID, "svc1")
	require.NoError(t, err)
	assert.True(t, bal.OnHand.Equal(dec("-2")))

	movs, err := store.Movements.ListByRef(testTenantID, entity.RefSale, resp.SaleID)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestConfirm_ProductoInactivoRechazado(t *testing.T) {
	store, uc := newSaleEnv(t)
	p := seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	p.Active = false
	require.NoError(t, store.Products.Update(p))

	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, cashTender("100"), "")
	require.ErrorIs(t, err, domain.ErrProductInactive)
}

func TestConfirm_ProductoDeOtroTenant_NotFound(t *testing.T) {
	store, uc := newSaleEnv(t)
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: otherTenant, Name: "Otro"}))
	seedProduct(t, store, otherTenant, "ajeno", "SKU-X", "100", "10")

	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"ajeno": dec("1")}, cashTender("100"), "")
	require.ErrorIs(t, err, domain.ErrNotFound, "un ID ajeno es indistinguible de uno inexistente")
}

func TestConfirm_CarritoVacio(t *testing.T) {
	_, uc := newSaleEnv(t)
	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{}, cashTender("100"), "")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestConfirm_CantidadNoPositivaRechazada(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")

	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("0")}, cashTender("0"), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_ClaveIdempotenciaRepetida(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")

	cart := map[string]decimal.Decimal{"p1": dec("1")}
	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		cart, cashTender("100"), "clave-abc")
	require.NoError(t, err)

	// El reintento con la misma clave no crea una segunda venta ni vuelve a
	// descontar stock.
	_, err = uc.Confirm(context.Background(), testTenantID, testUserID,
		cart, cashTender("100"), "clave-abc")
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("9")), "solo la primera confirmación descuenta")
}

func TestConfirm_MismaClaveEnOtroTenantNoColisiona(t *testing.T) {
	store, uc := newSaleEnv(t)
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: otherTenant, Name: "Otro"}))
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "100", "10")
	seedProduct(t, store, otherTenant, "p2", "SKU-1", "100", "10")

	_, err := uc.Confirm(context.Background(), testTenantID, testUserID,
		map[string]decimal.Decimal{"p1": dec("1")}, cashTender("100"), "clave-abc")
	require.NoError(t, err)

	// La clave de idempotencia es única POR tenant.
	_, err = uc.Confirm(context.Background(), otherTenant, testUserID,
		map[string]decimal.Decimal{"p2": dec("1")}, cashTender("100"), "clave-abc")
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación desde el carrito durable
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmDraft_ConsumeElCarrito(t *testing.T) {
	store, uc := newSaleEnv(t)
	seedProduct(t, store, testTenantID, "p1", "SKU-1", "500", "10")

	draft, err := store.Drafts.GetOrCreate(testTenantID, testUserID)
	require.NoError(t, err)
	require.NoError(t, store.Drafts.SetLine(draft.ID, "p1", dec("2")))

	resp, err := uc.ConfirmDraft(context.Background(), testTenantID, testUserID,
		dto.ConfirmSaleRequest{Tenders: cashTender("1000")})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("1000")))

	// El carrito se descarta tras confirmar.
	draft2, err := store.Drafts.GetOrCreate(testTenantID, testUserID)
	require.NoError(t, err)
	lines, err := store.Drafts.ListLines(draft2.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestConfirmDraft_CarritoVacio(t *testing.T) {
	_, uc := newSaleEnv(t)
	_, err := uc.ConfirmDraft(context.Background(), testTenantID, testUserID,
		dto.ConfirmSaleRequest{Tenders: cashTender("100")})
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}
