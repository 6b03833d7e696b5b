package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de cotizaciones sobre PostgreSQL.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, tenant_id, customer_name, status, valid_until, total_amount, sale_id, created_at, updated_at, created_by`

// Create inserta la cotización.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.TenantID, quote.CustomerName, quote.Status, quote.ValidUntil,
		quote.TotalAmount, nullIfEmpty(quote.SaleID), quote.CreatedAt, quote.UpdatedAt, quote.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// CreateLine inserta una línea con el snapshot congelado de producto y precio.
func (r *QuoteRepo) CreateLine(line *entity.QuoteLine) error {
	query := `
		INSERT INTO quote_lines (id, quote_id, product_id, product_name, unit_measure, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.QuoteID, line.ProductID, line.ProductName, line.UnitMeasure,
		line.Quantity, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la cotización bloqueando su fila: dos conversiones
// simultáneas se serializan aquí.
func (r *QuoteRepo) GetForUpdate(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ListLines lista las líneas de la cotización.
func (r *QuoteRepo) ListLines(quoteID string) ([]*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, product_id, product_name, unit_measure, quantity, unit_price, line_total
		FROM quote_lines WHERE quote_id = $1`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.ProductName, &l.UnitMeasure, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// List lista las cotizaciones del tenant.
func (r *QuoteRepo) List(tenantID string) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE tenant_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, quote)
	}
	return out, rows.Err()
}

// UpdateStatus persiste una transición de estado (SENT, CANCELED).
func (r *QuoteRepo) UpdateStatus(quote *entity.Quote) error {
	query := `UPDATE quotes SET status = $1, updated_at = now() WHERE id = $2`
	if _, err := r.q.Exec(context.Background(), query, quote.Status, quote.ID); err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return nil
}

// MarkAccepted fija status=ACCEPTED y sale_id. Transición terminal.
func (r *QuoteRepo) MarkAccepted(quoteID, saleID string) error {
	query := `
		UPDATE quotes
		SET status = $1, sale_id = $2, updated_at = now()
		WHERE id = $3 AND sale_id IS NULL`
	tag, err := r.q.Exec(context.Background(), query, entity.QuoteStatusAccepted, saleID, quoteID)
	if err != nil {
		return fmt.Errorf("mark quote accepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark quote accepted: cotización %s ya convertida", quoteID)
	}
	return nil
}

func (r *QuoteRepo) scanOne(row pgx.Row) (*entity.Quote, error) {
	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return quote, nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var saleID *string
	err := row.Scan(
		&q.ID, &q.TenantID, &q.CustomerName, &q.Status, &q.ValidUntil,
		&q.TotalAmount, &saleID, &q.CreatedAt, &q.UpdatedAt, &q.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if saleID != nil {
		q.SaleID = *saleID
	}
	return &q, nil
}
