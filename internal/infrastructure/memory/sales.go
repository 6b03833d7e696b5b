package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleStore)(nil)
var _ repository.SaleDraftRepository = (*DraftStore)(nil)

// SaleStore ventas en memoria.
type SaleStore struct{ s *Store }

func (r *SaleStore) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.IdempotencyKey != "" {
		for _, existing := range r.s.salesByID {
			if existing.TenantID == sale.TenantID && existing.IdempotencyKey == sale.IdempotencyKey {
				return domain.ErrDuplicateSubmission
			}
		}
	}
	r.s.salesByID[sale.ID] = *sale
	return nil
}

func (r *SaleStore) CreateLine(line *entity.SaleLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saleLines[line.SaleID] = append(r.s.saleLines[line.SaleID], *line)
	return nil
}

func (r *SaleStore) CreatePayment(payment *entity.SalePayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.salePayments[payment.SaleID] = append(r.s.salePayments[payment.SaleID], *payment)
	return nil
}

func (r *SaleStore) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.salesByID[id]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el mutex serializa.
func (r *SaleStore) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleStore) GetByIdempotencyKey(tenantID, key string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.salesByID {
		if s.TenantID == tenantID && s.IdempotencyKey == key {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SaleStore) ListLines(saleID string) ([]*entity.SaleLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleLine
	for _, l := range r.s.saleLines[saleID] {
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SaleStore) ListPayments(saleID string) ([]*entity.SalePayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SalePayment
	for _, p := range r.s.salePayments[saleID] {
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SaleStore) List(tenantID string, from, to time.Time) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.s.salesByID {
		if s.TenantID == tenantID && !s.Date.Before(from) && !s.Date.After(to) {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SaleStore) UpdateTotals(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.salesByID[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Total = sale.Total
	existing.AmountPaid = sale.AmountPaid
	existing.Status = sale.Status
	existing.PaymentStatus = sale.PaymentStatus
	r.s.salesByID[sale.ID] = existing
	return nil
}

func (r *SaleStore) DeleteLines(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.saleLines, saleID)
	return nil
}

func (r *SaleStore) DeletePayments(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.salePayments, saleID)
	return nil
}

func (r *SaleStore) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.salesByID, id)
	return nil
}

// DraftStore carritos durables en memoria.
type DraftStore struct{ s *Store }

func (r *DraftStore) GetOrCreate(tenantID, userID string) (*entity.SaleDraft, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key2(tenantID, userID)
	d, ok := r.s.drafts[k]
	if !ok {
		d = entity.SaleDraft{ID: uuid.New().String(), TenantID: tenantID, UserID: userID, UpdatedAt: time.Now()}
		r.s.drafts[k] = d
	}
	cp := d
	return &cp, nil
}

func (r *DraftStore) SetLine(draftID, productID string, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := r.s.draftLines[draftID]
	for i, l := range lines {
		if l.ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	r.s.draftLines[draftID] = append(lines, entity.SaleDraftLine{
		ID: uuid.New().String(), DraftID: draftID, ProductID: productID, Quantity: quantity,
	})
	return nil
}

func (r *DraftStore) RemoveLine(draftID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := r.s.draftLines[draftID]
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	r.s.draftLines[draftID] = out
	return nil
}

func (r *DraftStore) ListLines(draftID string) ([]*entity.SaleDraftLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleDraftLine
	for _, l := range r.s.draftLines[draftID] {
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *DraftStore) Delete(tenantID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key2(tenantID, userID)
	if d, ok := r.s.drafts[k]; ok {
		delete(r.s.draftLines, d.ID)
		delete(r.s.drafts, k)
	}
	return nil
}
