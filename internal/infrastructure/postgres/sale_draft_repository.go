package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.SaleDraftRepository = (*SaleDraftRepo)(nil)

// SaleDraftRepo carrito durable por (tenant, usuario) sobre PostgreSQL.
type SaleDraftRepo struct {
	q Querier
}

// NewSaleDraftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleDraftRepository(q Querier) *SaleDraftRepo {
	return &SaleDraftRepo{q: q}
}

// GetOrCreate devuelve el carrito del usuario, creándolo si no existe.
// El índice único (tenant_id, user_id) resuelve la carrera de creación.
func (r *SaleDraftRepo) GetOrCreate(tenantID, userID string) (*entity.SaleDraft, error) {
	ctx := context.Background()
	get := `
		SELECT id, tenant_id, user_id, updated_at
		FROM sale_drafts WHERE tenant_id = $1 AND user_id = $2`

	var d entity.SaleDraft
	err := r.q.QueryRow(ctx, get, tenantID, userID).Scan(&d.ID, &d.TenantID, &d.UserID, &d.UpdatedAt)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get sale draft: %w", err)
	}

	ins := `
		INSERT INTO sale_drafts (id, tenant_id, user_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tenant_id, user_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ins, uuid.New().String(), tenantID, userID); err != nil {
		return nil, fmt.Errorf("create sale draft: %w", err)
	}
	if err := r.q.QueryRow(ctx, get, tenantID, userID).Scan(&d.ID, &d.TenantID, &d.UserID, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("get sale draft tras crear: %w", err)
	}
	return &d, nil
}

// SetLine fija la cantidad de un producto en el carrito (upsert).
func (r *SaleDraftRepo) SetLine(draftID, productID string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO sale_draft_lines (id, draft_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (draft_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`
	if _, err := r.q.Exec(context.Background(), query, uuid.New().String(), draftID, productID, quantity); err != nil {
		return fmt.Errorf("set draft line: %w", err)
	}
	touch := `UPDATE sale_drafts SET updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), touch, draftID); err != nil {
		return fmt.Errorf("touch draft: %w", err)
	}
	return nil
}

// RemoveLine quita un producto del carrito.
func (r *SaleDraftRepo) RemoveLine(draftID, productID string) error {
	query := `DELETE FROM sale_draft_lines WHERE draft_id = $1 AND product_id = $2`
	if _, err := r.q.Exec(context.Background(), query, draftID, productID); err != nil {
		return fmt.Errorf("remove draft line: %w", err)
	}
	return nil
}

// ListLines lista las líneas del carrito.
func (r *SaleDraftRepo) ListLines(draftID string) ([]*entity.SaleDraftLine, error) {
	query := `
		SELECT id, draft_id, product_id, quantity
		FROM sale_draft_lines WHERE draft_id = $1`
	rows, err := r.q.Query(context.Background(), query, draftID)
	if err != nil {
		return nil, fmt.Errorf("list draft lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleDraftLine
	for rows.Next() {
		var l entity.SaleDraftLine
		if err := rows.Scan(&l.ID, &l.DraftID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan draft line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Delete descarta el carrito del usuario y sus líneas.
func (r *SaleDraftRepo) Delete(tenantID, userID string) error {
	ctx := context.Background()
	delLines := `
		DELETE FROM sale_draft_lines
		WHERE draft_id IN (SELECT id FROM sale_drafts WHERE tenant_id = $1 AND user_id = $2)`
	if _, err := r.q.Exec(ctx, delLines, tenantID, userID); err != nil {
		return fmt.Errorf("delete draft lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_drafts WHERE tenant_id = $1 AND user_id = $2`, tenantID, userID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
