package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteStore)(nil)

// QuoteStore cotizaciones en memoria.
type QuoteStore struct{ s *Store }

func (r *QuoteStore) Create(quote *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quotesByID[quote.ID] = *quote
	return nil
}

func (r *QuoteStore) CreateLine(line *entity.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quoteLines[line.QuoteID] = append(r.s.quoteLines[line.QuoteID], *line)
	return nil
}

func (r *QuoteStore) GetByID(id string) (*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if q, ok := r.s.quotesByID[id]; ok {
		cp := q
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el mutex serializa.
func (r *QuoteStore) GetForUpdate(id string) (*entity.Quote, error) {
	return r.GetByID(id)
}

func (r *QuoteStore) ListLines(quoteID string) ([]*entity.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.QuoteLine
	for _, l := range r.s.quoteLines[quoteID] {
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *QuoteStore) List(tenantID string) ([]*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Quote
	for _, q := range r.s.quotesByID {
		if q.TenantID == tenantID {
			cp := q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *QuoteStore) UpdateStatus(quote *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.quotesByID[quote.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Status = quote.Status
	existing.UpdatedAt = time.Now()
	r.s.quotesByID[quote.ID] = existing
	return nil
}

func (r *QuoteStore) MarkAccepted(quoteID, saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.quotesByID[quoteID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.SaleID != "" {
		return fmt.Errorf("mark quote accepted: cotización %s ya convertida", quoteID)
	}
	existing.Status = entity.QuoteStatusAccepted
	existing.SaleID = saleID
	existing.UpdatedAt = time.Now()
	r.s.quotesByID[quoteID] = existing
	return nil
}
