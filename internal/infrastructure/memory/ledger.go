package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerStore)(nil)

// LedgerStore libro financiero en memoria.
type LedgerStore struct{ s *Store }

func (r *LedgerStore) Create(entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger[entry.ID] = *entry
	return nil
}

func (r *LedgerStore) ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.TenantID == tenantID && e.RefKind == refKind && e.RefID == refID {
			cp := e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *LedgerStore) DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.ledger {
		if e.TenantID == tenantID && e.RefKind == refKind && e.RefID == refID {
			delete(r.s.ledger, id)
		}
	}
	return nil
}

func (r *LedgerStore) Aggregate(_ context.Context, tenantID string, from, to time.Time, granularity repository.Granularity, method entity.PaymentMethod) ([]repository.LedgerBucket, error) {
	if !repository.ValidGranularity(granularity) {
		return nil, domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	buckets := map[time.Time]*repository.LedgerBucket{}
	for _, e := range r.s.ledger {
		if e.TenantID != tenantID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if method != "" && e.Method != method {
			continue
		}
		period := truncate(e.Date, granularity)
		b, ok := buckets[period]
		if !ok {
			b = &repository.LedgerBucket{Period: period}
			buckets[period] = b
		}
		switch e.Type {
		case entity.LedgerIncome:
			b.Income = b.Income.Add(e.Amount)
		case entity.LedgerExpense:
			b.Expense = b.Expense.Add(e.Amount)
		}
	}

	out := make([]repository.LedgerBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.Income.Sub(b.Expense)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

func truncate(t time.Time, g repository.Granularity) time.Time {
	switch g {
	case repository.GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case repository.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	}
}
