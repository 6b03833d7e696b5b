package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// Cache caché de lectura para reportes. Get devuelve (nil, nil) en miss.
// Siempre es best-effort: un fallo del caché nunca falla el reporte.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReportUseCase camino de lectura: agrega el libro de caja y lista stock.
// Lee de la vista materializada y del libro, nunca recalcula recorriendo
// movimientos.
type ReportUseCase struct {
	ledgerRepo  repository.LedgerRepository
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
	cache       Cache // opcional
	cacheTTL    time.Duration
	log         *logger.Logger // opcional
}

func NewReportUseCase(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	cache Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *ReportUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportUseCase{
		ledgerRepo:  ledgerRepo,
		stockRepo:   stockRepo,
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// Ledger agrega ingresos/egresos por periodo dentro del rango. method vacío
// significa todos los medios de pago.
func (uc *ReportUseCase) Ledger(ctx context.Context, tenantID string, from, to time.Time, granularity repository.Granularity, method entity.PaymentMethod) (*dto.LedgerReportResponse, error) {
	if !repository.ValidGranularity(granularity) {
		return nil, domain.ErrInvalidInput
	}
	if method != "" && !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	key := fmt.Sprintf("ledger:%s:%s:%s:%s:%s",
		tenantID, from.Format("2006-01-02"), to.Format("2006-01-02"), granularity, method)
	if cached := uc.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	buckets, err := uc.ledgerRepo.Aggregate(ctx, tenantID, from, to, granularity, method)
	if err != nil {
		return nil, err
	}

	resp := &dto.LedgerReportResponse{
		From:        from,
		To:          to,
		Granularity: string(granularity),
		Method:      string(method),
		Buckets:     make([]dto.LedgerBucketResponse, 0, len(buckets)),
	}
	for _, b := range buckets {
		resp.Buckets = append(resp.Buckets, dto.LedgerBucketResponse{
			Period:  b.Period,
			Income:  b.Income,
			Expense: b.Expense,
			Net:     b.Net,
		})
	}

	uc.cacheSet(ctx, key, resp)
	return resp, nil
}

// Stock lista el stock disponible del tenant con su nombre de producto y la
// marca de bajo mínimo.
func (uc *ReportUseCase) Stock(ctx context.Context, tenantID string) ([]dto.StockBalanceResponse, error) {
	balances, err := uc.stockRepo.List(tenantID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		names[p.ID] = p
	}

	out := make([]dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		p, ok := names[b.ProductID]
		if !ok {
			continue
		}
		out = append(out, dto.StockBalanceResponse{
			ProductID:   b.ProductID,
			ProductName: p.Name,
			OnHand:      b.OnHand,
			MinStock:    p.MinStock,
			BelowMin:    !p.UnlimitedStock && b.OnHand.LessThan(p.MinStock),
		})
	}
	return out, nil
}

func (uc *ReportUseCase) cacheGet(ctx context.Context, key string) *dto.LedgerReportResponse {
	if uc.cache == nil {
		return nil
	}
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		if uc.log != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("leer caché de reportes")
		}
		return nil
	}
	if raw == nil {
		return nil
	}
	var resp dto.LedgerReportResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (uc *ReportUseCase) cacheSet(ctx context.Context, key string, resp *dto.LedgerReportResponse) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escribir caché de reportes")
	}
}
