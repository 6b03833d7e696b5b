package quotes_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/quotes"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenantID = "00000000-0000-0000-0000-0000000000t1"
	testUserID   = "00000000-0000-0000-0000-0000000000u1"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newQuoteEnv(t *testing.T) (*memory.Store, *quotes.QuoteUseCase) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: testTenantID, Name: "Tienda Test"}))
	uc := quotes.NewQuoteUseCase(store, store.Quotes, store.Products, nil, logger.Nop())
	return store, uc
}

func seedProduct(t *testing.T, store *memory.Store, id, sku, price, onHand string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: id, TenantID: testTenantID, SKU: sku, Name: "Producto " + sku,
		Price: dec(price), Active: true,
	}
	require.NoError(t, store.Products.Create(p))
	if onHand != "0" {
		_, err := store.Stock.LockBalances(testTenantID, []string{id})
		require.NoError(t, err)
		require.NoError(t, store.Stock.ApplyDelta(testTenantID, id, dec(onHand)))
	}
	return p
}

func createQuote(t *testing.T, uc *quotes.QuoteUseCase, validUntil *time.Time, lines ...dto.CreateQuoteLineRequest) *dto.QuoteResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), testTenantID, testUserID, dto.CreateQuoteRequest{
		CustomerName: "Cliente Test",
		ValidUntil:   validUntil,
		Lines:        lines,
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y congelamiento de precios
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateQuote_CongelaPrecioVigente(t *testing.T) {
	store, uc := newQuoteEnv(t)
	p := seedProduct(t, store, "p1", "SKU-1", "500", "10")

	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("4")})
	assert.True(t, quote.TotalAmount.Equal(dec("2000")))

	// El catálogo cambia después: la cotización no se entera.
	p.Price = dec("9999")
	p.Name = "Renombrado"
	require.NoError(t, store.Products.Update(p))

	got, err := uc.Get(context.Background(), testTenantID, quote.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(dec("500")))
	assert.Equal(t, "Producto SKU-1", got.Lines[0].ProductName)
}

func TestCreateQuote_NoReservaStock(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")

	createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("8")})

	bal, err := store.Stock.Get(testTenantID, "p1")
	require.NoError(t, err)
	assert.True(t, bal.OnHand.Equal(dec("10")), "cotizar no toca el stock")
}

func TestCreateQuote_ProductoInactivo(t *testing.T) {
	store, uc := newQuoteEnv(t)
	p := seedProduct(t, store, "p1", "SKU-1", "500", "10")
	p.Active = false
	require.NoError(t, store.Products.Update(p))

	_, err := uc.Create(context.Background(), testTenantID, testUserID, dto.CreateQuoteRequest{
		Lines: []dto.CreateQuoteLineRequest{{ProductID: "p1", Quantity: dec("1")}},
	})
	require.ErrorIs(t, err, domain.ErrProductInactive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_SendYCancel(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")
	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("1")})

	require.NoError(t, uc.Send(context.Background(), testTenantID, quote.ID))
	got, _ := store.Quotes.GetByID(quote.ID)
	assert.Equal(t, entity.QuoteStatusSent, got.Status)

	// Send repetido es idempotente.
	require.NoError(t, uc.Send(context.Background(), testTenantID, quote.ID))

	require.NoError(t, uc.Cancel(context.Background(), testTenantID, quote.ID))
	got, _ = store.Quotes.GetByID(quote.ID)
	assert.Equal(t, entity.QuoteStatusCanceled, got.Status)

	// Una cancelada no puede enviarse ni convertirse.
	require.ErrorIs(t, uc.Send(context.Background(), testTenantID, quote.ID), domain.ErrQuoteNotConvertible)
	_, err := uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.ErrorIs(t, err, domain.ErrQuoteNotConvertible)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión a venta
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_CreaVentaPendienteConPrecioCongelado(t *testing.T) {
	store, uc := newQuoteEnv(t)
	p := seedProduct(t, store, "p1", "SKU-1", "500", "10")
	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("4")})

	// El precio sube antes de convertir: la venta usa el congelado.
	p.Price = dec("800")
	require.NoError(t, store.Products.Update(p))

	saleID, err := uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.NoError(t, err)

	sale, err := store.Sales.GetByID(saleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.True(t, sale.Total.Equal(dec("2000")))
	assert.Equal(t, entity.SaleStatusConfirmed, sale.Status)
	assert.Equal(t, entity.PaymentStatusPending, sale.PaymentStatus, "la venta convertida nace a crédito")
	assert.True(t, sale.AmountPaid.IsZero())

	lines, _ := store.Sales.ListLines(saleID)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(dec("500")))

	// El stock sale al convertir, no al cotizar.
	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("6")))

	// Asiento por devengo: INCOME sin medio de pago.
	entries, _ := store.Ledger.ListByRef(testTenantID, entity.RefSale, saleID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerIncome, entries[0].Type)
	assert.Empty(t, string(entries[0].Method))

	// La cotización queda ligada a la venta.
	got, _ := store.Quotes.GetByID(quote.ID)
	assert.Equal(t, entity.QuoteStatusAccepted, got.Status)
	assert.Equal(t, saleID, got.SaleID)
}

func TestConvert_DobleConversionRechazada(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")
	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("2")})

	_, err := uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.NoError(t, err)

	_, err = uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.ErrorIs(t, err, domain.ErrQuoteAlreadyConverted)

	bal, _ := store.Stock.Get(testTenantID, "p1")
	assert.True(t, bal.OnHand.Equal(dec("8")), "solo la primera conversión descuenta stock")
}

func TestConvert_CotizacionVencida(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")
	ayer := time.Now().AddDate(0, 0, -1)
	quote := createQuote(t, uc, &ayer, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("1")})

	_, err := uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.ErrorIs(t, err, domain.ErrQuoteExpired)
}

func TestConvert_VigenciaHastaHoyInclusive(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")
	hoy := time.Now()
	quote := createQuote(t, uc, &hoy, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("1")})

	// valid_until es inclusivo: hoy todavía convierte.
	_, err := uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.NoError(t, err)
}

func TestConvert_StockInsuficienteAlConvertir(t *testing.T) {
	store, uc := newQuoteEnv(t)
	p := seedProduct(t, store, "p1", "SKU-1", "500", "10")
	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("8")})

	// Entre cotizar y convertir el stock bajó a 5.
	_, err := store.Stock.LockBalances(testTenantID, []string{p.ID})
	require.NoError(t, err)
	require.NoError(t, store.Stock.ApplyDelta(testTenantID, p.ID, dec("-5")))

	_, err = uc.Convert(context.Background(), testTenantID, testUserID, quote.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La cotización sigue convertible si el stock vuelve.
	got, _ := store.Quotes.GetByID(quote.ID)
	assert.Equal(t, entity.QuoteStatusDraft, got.Status)
	assert.Empty(t, got.SaleID)
}

func TestConvert_CotizacionDeOtroTenant(t *testing.T) {
	store, uc := newQuoteEnv(t)
	seedProduct(t, store, "p1", "SKU-1", "500", "10")
	quote := createQuote(t, uc, nil, dto.CreateQuoteLineRequest{ProductID: "p1", Quantity: dec("1")})

	_, err := uc.Convert(context.Background(), "otro-tenant", testUserID, quote.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
