package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del log de movimientos sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta la cabecera del movimiento.
func (r *StockMovementRepo) Create(mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, kind, ref_kind, ref_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.TenantID, mov.Kind, mov.RefKind, mov.RefID, mov.Date, mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de movimiento (cantidad firmada).
func (r *StockMovementRepo) CreateLine(line *entity.StockMovementLine) error {
	query := `
		INSERT INTO stock_movement_lines (id, movement_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.MovementID, line.ProductID, line.Quantity, line.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement line: %w", err)
	}
	return nil
}

// ListByRef lista los movimientos originados por un documento de negocio.
func (r *StockMovementRepo) ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, kind, ref_kind, ref_id, date, created_at, created_by
		FROM stock_movements
		WHERE tenant_id = $1 AND ref_kind = $2 AND ref_id = $3
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID, refKind, refID)
	if err != nil {
		return nil, fmt.Errorf("list movements by ref: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Kind, &m.RefKind, &m.RefID, &m.Date, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ListLines lista las líneas de un movimiento.
func (r *StockMovementRepo) ListLines(movementID string) ([]*entity.StockMovementLine, error) {
	query := `
		SELECT id, movement_id, product_id, quantity, unit_cost
		FROM stock_movement_lines WHERE movement_id = $1`
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovementLine
	for rows.Next() {
		var l entity.StockMovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// DeleteByRef elimina movimientos y líneas de un documento. Solo lo usa la
// reversión total de una venta.
func (r *StockMovementRepo) DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error {
	ctx := context.Background()
	delLines := `
		DELETE FROM stock_movement_lines
		WHERE movement_id IN (
			SELECT id FROM stock_movements
			WHERE tenant_id = $1 AND ref_kind = $2 AND ref_id = $3
		)`
	if _, err := r.q.Exec(ctx, delLines, tenantID, refKind, refID); err != nil {
		return fmt.Errorf("delete movement lines by ref: %w", err)
	}
	delMovs := `
		DELETE FROM stock_movements
		WHERE tenant_id = $1 AND ref_kind = $2 AND ref_id = $3`
	if _, err := r.q.Exec(ctx, delMovs, tenantID, refKind, refID); err != nil {
		return fmt.Errorf("delete movements by ref: %w", err)
	}
	return nil
}

// SumByProduct suma las cantidades firmadas de todas las líneas del producto.
// Auditoría: debe coincidir con StockBalance.OnHand.
func (r *StockMovementRepo) SumByProduct(tenantID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM stock_movement_lines l
		JOIN stock_movements m ON m.id = l.movement_id
		WHERE m.tenant_id = $1 AND l.product_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, tenantID, productID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements by product: %w", err)
	}
	return sum, nil
}
