package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockStore)(nil)
var _ repository.StockMovementRepository = (*MovementStore)(nil)

// StockStore vista materializada de stock en memoria.
type StockStore struct{ s *Store }

func (r *StockStore) Get(tenantID, productID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[key2(tenantID, productID)]; ok {
		cp := b
		return &cp, nil
	}
	return &entity.StockBalance{TenantID: tenantID, ProductID: productID, OnHand: decimal.Zero}, nil
}

func (r *StockStore) List(tenantID string) ([]*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockBalance
	for _, b := range r.s.balances {
		if b.TenantID == tenantID {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

// LockBalances asegura filas de saldo para los productos del tenant y las
// devuelve. Sin locks reales: el mutex del store serializa todo.
func (r *StockStore) LockBalances(tenantID string, productIDs []string) (map[string]*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.StockBalance, len(productIDs))
	for _, id := range productIDs {
		p, ok := r.s.products[id]
		if !ok || p.TenantID != tenantID {
			continue
		}
		k := key2(tenantID, id)
		b, ok := r.s.balances[k]
		if !ok {
			b = entity.StockBalance{TenantID: tenantID, ProductID: id, OnHand: decimal.Zero, UpdatedAt: time.Now()}
			r.s.balances[k] = b
		}
		cp := b
		out[id] = &cp
	}
	return out, nil
}

func (r *StockStore) ApplyDelta(tenantID, productID string, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key2(tenantID, productID)
	b, ok := r.s.balances[k]
	if !ok {
		return fmt.Errorf("apply stock delta: saldo inexistente para producto %s", productID)
	}
	b.OnHand = b.OnHand.Add(delta)
	b.UpdatedAt = time.Now()
	r.s.balances[k] = b
	return nil
}

// MovementStore log de movimientos en memoria.
type MovementStore struct{ s *Store }

func (r *MovementStore) Create(mov *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movs[mov.ID] = *mov
	return nil
}

func (r *MovementStore) CreateLine(line *entity.StockMovementLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movLines[line.MovementID] = append(r.s.movLines[line.MovementID], *line)
	return nil
}

func (r *MovementStore) ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movs {
		if m.TenantID == tenantID && m.RefKind == refKind && m.RefID == refID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MovementStore) ListLines(movementID string) ([]*entity.StockMovementLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovementLine
	for _, l := range r.s.movLines[movementID] {
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MovementStore) DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.movs {
		if m.TenantID == tenantID && m.RefKind == refKind && m.RefID == refID {
			delete(r.s.movs, id)
			delete(r.s.movLines, id)
		}
	}
	return nil
}

func (r *MovementStore) SumByProduct(tenantID, productID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for movID, lines := range r.s.movLines {
		m, ok := r.s.movs[movID]
		if !ok || m.TenantID != tenantID {
			continue
		}
		for _, l := range lines {
			if l.ProductID == productID {
				sum = sum.Add(l.Quantity)
			}
		}
	}
	return sum, nil
}
