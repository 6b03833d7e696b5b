package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo actual de un producto. Sin fila = saldo cero.
func (r *StockRepo) Get(tenantID, productID string) (*entity.StockBalance, error) {
	query := `
		SELECT tenant_id, product_id, on_hand, updated_at
		FROM stock_balances WHERE tenant_id = $1 AND product_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, tenantID, productID).Scan(
		&b.TenantID, &b.ProductID, &b.OnHand, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{TenantID: tenantID, ProductID: productID, OnHand: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// List lista los saldos del tenant.
func (r *StockRepo) List(tenantID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT tenant_id, product_id, on_hand, updated_at
		FROM stock_balances WHERE tenant_id = $1`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.TenantID, &b.ProductID, &b.OnHand, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// LockBalances toma locks exclusivos de fila (SELECT ... FOR UPDATE) sobre los
// saldos de los productos del tenant. Primero asegura que exista una fila de
// saldo por producto (saldo cero), porque no se puede bloquear una fila
// ausente; luego bloquea en orden de product_id. El join con products filtra
// por tenant: un ID ajeno no matchea ninguna fila.
func (r *StockRepo) LockBalances(tenantID string, productIDs []string) (map[string]*entity.StockBalance, error) {
	if len(productIDs) == 0 {
		return map[string]*entity.StockBalance{}, nil
	}
	ctx := context.Background()

	ensure := `
		INSERT INTO stock_balances (tenant_id, product_id, on_hand, updated_at)
		SELECT p.tenant_id, p.id, 0, now()
		FROM products p
		WHERE p.tenant_id = $1 AND p.id = ANY($2)
		ON CONFLICT (tenant_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, tenantID, productIDs); err != nil {
		return nil, fmt.Errorf("ensure stock balances: %w", err)
	}

	lock := `
		SELECT b.tenant_id, b.product_id, b.on_hand, b.updated_at
		FROM stock_balances b
		JOIN products p ON p.tenant_id = b.tenant_id AND p.id = b.product_id
		WHERE b.tenant_id = $1 AND b.product_id = ANY($2)
		ORDER BY b.product_id
		FOR UPDATE OF b`
	rows, err := r.q.Query(ctx, lock, tenantID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("lock stock balances: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.StockBalance, len(productIDs))
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.TenantID, &b.ProductID, &b.OnHand, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan locked balance: %w", err)
		}
		out[b.ProductID] = &b
	}
	return out, rows.Err()
}

// ApplyDelta suma delta (firmado) al saldo. Presupone el lock tomado.
func (r *StockRepo) ApplyDelta(tenantID, productID string, delta decimal.Decimal) error {
	query := `
		UPDATE stock_balances
		SET on_hand = on_hand + $1, updated_at = now()
		WHERE tenant_id = $2 AND product_id = $3`
	tag, err := r.q.Exec(context.Background(), query, delta, tenantID, productID)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("apply stock delta: saldo inexistente para producto %s", productID)
	}
	return nil
}
