package reporting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/reporting"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testTenantID = "00000000-0000-0000-0000-0000000000t1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func newReportEnv(t *testing.T, cache reporting.Cache) (*memory.Store, *reporting.ReportUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := reporting.NewReportUseCase(
		store.Ledger, store.Stock, store.Products, cache, time.Minute, logger.Nop(),
	)
	return store, uc
}

func seedEntry(t *testing.T, store *memory.Store, date time.Time, typ entity.LedgerType, amount string, method entity.PaymentMethod) {
	t.Helper()
	require.NoError(t, store.Ledger.Create(&entity.LedgerEntry{
		ID:       uuid.New().String(),
		TenantID: testTenantID,
		Date:     date,
		Type:     typ,
		Amount:   dec(amount),
		RefKind:  entity.RefManual,
		RefID:    uuid.New().String(),
		Method:   method,
	}))
}

// memCache implementación mínima de reporting.Cache para los tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de caja
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_AgregaPorDia(t *testing.T) {
	store, uc := newReportEnv(t, nil)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "1000", entity.PaymentCash)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "500", entity.PaymentCard)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerExpense, "300", entity.PaymentCash)
	seedEntry(t, store, day(2026, 3, 11), entity.LedgerIncome, "200", entity.PaymentCash)

	resp, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, "")
	require.NoError(t, err)
	require.Len(t, resp.Buckets, 2)

	b0 := resp.Buckets[0]
	assert.Equal(t, day(2026, 3, 10), b0.Period)
	assert.True(t, b0.Income.Equal(dec("1500")))
	assert.True(t, b0.Expense.Equal(dec("300")))
	assert.True(t, b0.Net.Equal(dec("1200")))

	b1 := resp.Buckets[1]
	assert.Equal(t, day(2026, 3, 11), b1.Period)
	assert.True(t, b1.Net.Equal(dec("200")))
}

func TestLedger_AgregaPorMes(t *testing.T) {
	store, uc := newReportEnv(t, nil)
	seedEntry(t, store, day(2026, 1, 5), entity.LedgerIncome, "100", entity.PaymentCash)
	seedEntry(t, store, day(2026, 1, 20), entity.LedgerIncome, "150", entity.PaymentCash)
	seedEntry(t, store, day(2026, 2, 3), entity.LedgerExpense, "80", entity.PaymentCash)

	resp, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 1, 1), day(2026, 12, 31), repository.GranularityMonth, "")
	require.NoError(t, err)
	require.Len(t, resp.Buckets, 2)
	assert.True(t, resp.Buckets[0].Income.Equal(dec("250")))
	assert.True(t, resp.Buckets[1].Expense.Equal(dec("80")))
	assert.True(t, resp.Buckets[1].Net.Equal(dec("-80")))
}

func TestLedger_FiltraPorMedioDePago(t *testing.T) {
	store, uc := newReportEnv(t, nil)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "1000", entity.PaymentCash)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "500", entity.PaymentCard)

	resp, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, entity.PaymentCard)
	require.NoError(t, err)
	require.Len(t, resp.Buckets, 1)
	assert.True(t, resp.Buckets[0].Income.Equal(dec("500")))
}

func TestLedger_RangoFueraDeEntradas(t *testing.T) {
	store, uc := newReportEnv(t, nil)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "1000", entity.PaymentCash)

	resp, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 4, 1), day(2026, 4, 30), repository.GranularityDay, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Buckets)
}

func TestLedger_ValidaEntrada(t *testing.T) {
	_, uc := newReportEnv(t, nil)

	_, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), "semana", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 31), day(2026, 3, 1), repository.GranularityDay, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, "CHEQUE")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_SegundaLecturaVieneDelCache(t *testing.T) {
	cache := newMemCache()
	store, uc := newReportEnv(t, cache)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "1000", entity.PaymentCash)

	first, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, "")
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	// Un asiento nuevo no se refleja hasta que el caché se invalide: la
	// segunda lectura sale del caché.
	seedEntry(t, store, day(2026, 3, 12), entity.LedgerIncome, "777", entity.PaymentCash)
	second, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, "")
	require.NoError(t, err)
	assert.Len(t, second.Buckets, len(first.Buckets))
}

// errCache implementación de reporting.Cache que siempre falla.
type errCache struct{}

func (errCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("caché caído")
}

func (errCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("caché caído")
}

func TestLedger_CacheCaidoEsBestEffort(t *testing.T) {
	// Caché fallando y logger nil: el reporte igual sale del repositorio,
	// sin pánico ni error.
	store := memory.NewStore()
	uc := reporting.NewReportUseCase(
		store.Ledger, store.Stock, store.Products, errCache{}, time.Minute, nil,
	)
	seedEntry(t, store, day(2026, 3, 10), entity.LedgerIncome, "1000", entity.PaymentCash)

	resp, err := uc.Ledger(context.Background(), testTenantID,
		day(2026, 3, 1), day(2026, 3, 31), repository.GranularityDay, "")
	require.NoError(t, err)
	require.Len(t, resp.Buckets, 1)
	assert.True(t, resp.Buckets[0].Income.Equal(dec("1000")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_MarcaBajoMinimo(t *testing.T) {
	store, uc := newReportEnv(t, nil)
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "p1", TenantID: testTenantID, SKU: "SKU-1", Name: "Escaso",
		Price: dec("10"), MinStock: dec("5"), Active: true,
	}))
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "p2", TenantID: testTenantID, SKU: "SKU-2", Name: "Sobrado",
		Price: dec("10"), MinStock: dec("5"), Active: true,
	}))
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "svc", TenantID: testTenantID, SKU: "SVC-1", Name: "Servicio",
		Price: dec("10"), MinStock: dec("5"), UnlimitedStock: true, Active: true,
	}))
	_, err := store.Stock.LockBalances(testTenantID, []string{"p1", "p2", "svc"})
	require.NoError(t, err)
	require.NoError(t, store.Stock.ApplyDelta(testTenantID, "p1", dec("2")))
	require.NoError(t, store.Stock.ApplyDelta(testTenantID, "p2", dec("9")))

	out, err := uc.Stock(context.Background(), testTenantID)
	require.NoError(t, err)
	require.Len(t, out, 3)

	byID := map[string]bool{}
	for _, b := range out {
		byID[b.ProductID] = b.BelowMin
	}
	assert.True(t, byID["p1"], "2 < mínimo 5")
	assert.False(t, byID["p2"])
	assert.False(t, byID["svc"], "el stock ilimitado nunca marca bajo mínimo")
}
