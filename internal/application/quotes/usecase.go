package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// QuoteUseCase ciclo de vida de cotizaciones: creación con precios
// congelados, envío, cancelación y conversión a venta.
type QuoteUseCase struct {
	txRunner    TxRunner
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
	cache       ReportCache // opcional
	log         *logger.Logger
}

// NewQuoteUseCase construye el caso de uso. cache puede ser nil.
func NewQuoteUseCase(
	txRunner TxRunner,
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
	cache ReportCache,
	log *logger.Logger,
) *QuoteUseCase {
	return &QuoteUseCase{
		txRunner:    txRunner,
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
		cache:       cache,
		log:         log,
	}
}

// Create crea una cotización en DRAFT congelando nombre, unidad y precio de
// cada producto al momento de cotizar: cambios posteriores del catálogo no
// la afectan.
func (uc *QuoteUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ids := make([]string, 0, len(in.Lines))
	qty := make(map[string]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := qty[l.ProductID]; dup {
			return nil, domain.ErrInvalidInput
		}
		qty[l.ProductID] = l.Quantity
		ids = append(ids, l.ProductID)
	}

	found, err := uc.productRepo.ListByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if !p.Active {
			return nil, domain.ErrProductInactive
		}
	}

	now := time.Now()
	quote := &entity.Quote{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		CustomerName: in.CustomerName,
		Status:       entity.QuoteStatusDraft,
		ValidUntil:   in.ValidUntil,
		TotalAmount:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    userID,
	}
	var lines []*entity.QuoteLine
	for _, id := range ids {
		p := products[id]
		lineTotal := qty[id].Mul(p.Price)
		lines = append(lines, &entity.QuoteLine{
			ID:          uuid.New().String(),
			QuoteID:     quote.ID,
			ProductID:   id,
			ProductName: p.Name,
			UnitMeasure: p.UnitMeasure,
			Quantity:    qty[id],
			UnitPrice:   p.Price,
			LineTotal:   lineTotal,
		})
		quote.TotalAmount = quote.TotalAmount.Add(lineTotal)
	}

	if err := uc.quoteRepo.Create(quote); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := uc.quoteRepo.CreateLine(l); err != nil {
			return nil, err
		}
	}
	return toQuoteResponse(quote, lines), nil
}

// Send transición DRAFT → SENT.
func (uc *QuoteUseCase) Send(ctx context.Context, tenantID, quoteID string) error {
	quote, err := uc.getOwned(tenantID, quoteID)
	if err != nil {
		return err
	}
	switch quote.Status {
	case entity.QuoteStatusDraft:
		quote.Status = entity.QuoteStatusSent
	case entity.QuoteStatusSent:
		return nil // ya enviada
	case entity.QuoteStatusAccepted:
		return domain.ErrQuoteAlreadyConverted
	case entity.QuoteStatusCanceled:
		return domain.ErrQuoteNotConvertible
	default:
		return domain.ErrInvalidInput
	}
	quote.UpdatedAt = time.Now()
	return uc.quoteRepo.UpdateStatus(quote)
}

// Cancel transición DRAFT/SENT → CANCELED.
func (uc *QuoteUseCase) Cancel(ctx context.Context, tenantID, quoteID string) error {
	quote, err := uc.getOwned(tenantID, quoteID)
	if err != nil {
		return err
	}
	switch quote.Status {
	case entity.QuoteStatusDraft, entity.QuoteStatusSent:
		quote.Status = entity.QuoteStatusCanceled
	case entity.QuoteStatusAccepted:
		return domain.ErrQuoteAlreadyConverted
	case entity.QuoteStatusCanceled:
		return nil // ya cancelada
	default:
		return domain.ErrInvalidInput
	}
	quote.UpdatedAt = time.Now()
	return uc.quoteRepo.UpdateStatus(quote)
}

// Get devuelve la cotización con su detalle.
func (uc *QuoteUseCase) Get(ctx context.Context, tenantID, quoteID string) (*dto.QuoteResponse, error) {
	quote, err := uc.getOwned(tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.quoteRepo.ListLines(quoteID)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(quote, lines), nil
}

func (uc *QuoteUseCase) getOwned(tenantID, quoteID string) (*entity.Quote, error) {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil || quote.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

func (uc *QuoteUseCase) invalidateReports(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateTenant(ctx, tenantID); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("invalidar caché de reportes")
	}
}

func toQuoteResponse(quote *entity.Quote, lines []*entity.QuoteLine) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:           quote.ID,
		CustomerName: quote.CustomerName,
		Status:       string(quote.Status),
		ValidUntil:   quote.ValidUntil,
		TotalAmount:  quote.TotalAmount,
		SaleID:       quote.SaleID,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.QuoteLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitMeasure: l.UnitMeasure,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return resp
}
