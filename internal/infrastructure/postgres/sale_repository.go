package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, tenant_id, date, total, status, idempotency_key, amount_paid, payment_status, created_at, created_by`

// Create inserta la venta. El índice único parcial sobre
// (tenant_id, idempotency_key) convierte una carrera de confirmaciones
// duplicadas en ErrDuplicateSubmission.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.TenantID, sale.Date, sale.Total, sale.Status,
		nullIfEmpty(sale.IdempotencyKey), sale.AmountPaid, sale.PaymentStatus,
		sale.CreatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// CreatePayment inserta un pago de la venta.
func (r *SaleRepo) CreatePayment(payment *entity.SalePayment) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, method, amount, cash_received, cash_change)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, payment.Method, payment.Amount,
		payment.CashReceived, payment.CashChange,
	)
	if err != nil {
		return fmt.Errorf("insert sale payment: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la venta bloqueando su fila (ajuste y reversión).
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByIdempotencyKey busca una venta por su clave de idempotencia (scoped al tenant).
func (r *SaleRepo) GetByIdempotencyKey(tenantID, key string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE tenant_id = $1 AND idempotency_key = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, tenantID, key))
}

// ListLines lista las líneas de la venta.
func (r *SaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// ListPayments lista los pagos de la venta.
func (r *SaleRepo) ListPayments(saleID string) ([]*entity.SalePayment, error) {
	query := `
		SELECT id, sale_id, method, amount, cash_received, cash_change
		FROM sale_payments WHERE sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.CashReceived, &p.CashChange); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// List lista ventas del tenant en un rango de fechas.
func (r *SaleRepo) List(tenantID string, from, to time.Time) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		sale, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

// UpdateTotals reescribe total, monto pagado y estados (ajuste de venta).
func (r *SaleRepo) UpdateTotals(sale *entity.Sale) error {
	query := `
		UPDATE sales
		SET total = $1, amount_paid = $2, status = $3, payment_status = $4
		WHERE id = $5`
	tag, err := r.q.Exec(context.Background(), query,
		sale.Total, sale.AmountPaid, sale.Status, sale.PaymentStatus, sale.ID,
	)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLines elimina todas las líneas de la venta.
func (r *SaleRepo) DeleteLines(saleID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return nil
}

// DeletePayments elimina todos los pagos de la venta.
func (r *SaleRepo) DeletePayments(saleID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM sale_payments WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale payments: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de la venta.
func (r *SaleRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) scanOne(row pgx.Row) (*entity.Sale, error) {
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (r *SaleRepo) scanRow(rows pgx.Rows) (*entity.Sale, error) {
	sale, err := scanSale(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return sale, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var idemKey *string
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Date, &s.Total, &s.Status, &idemKey,
		&s.AmountPaid, &s.PaymentStatus, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if idemKey != nil {
		s.IdempotencyKey = *idemKey
	}
	return &s, nil
}
