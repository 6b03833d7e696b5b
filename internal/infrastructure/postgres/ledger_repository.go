package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro financiero sobre PostgreSQL. Solo-inserción: no hay Update.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta un asiento.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, tenant_id, date, type, amount, ref_kind, ref_id, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.TenantID, entry.Date, entry.Type, entry.Amount,
		entry.RefKind, entry.RefID, nullIfEmpty(string(entry.Method)), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListByRef lista los asientos de un documento de negocio.
func (r *LedgerRepo) ListByRef(tenantID string, refKind entity.ReferenceKind, refID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, tenant_id, date, type, amount, ref_kind, ref_id, method, created_at
		FROM ledger_entries
		WHERE tenant_id = $1 AND ref_kind = $2 AND ref_id = $3
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID, refKind, refID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by ref: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var method *string
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Date, &e.Type, &e.Amount, &e.RefKind, &e.RefID, &method, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if method != nil {
			e.Method = entity.PaymentMethod(*method)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// DeleteByRef elimina los asientos de un documento. Solo lo usa la reversión
// total de una venta.
func (r *LedgerRepo) DeleteByRef(tenantID string, refKind entity.ReferenceKind, refID string) error {
	query := `DELETE FROM ledger_entries WHERE tenant_id = $1 AND ref_kind = $2 AND ref_id = $3`
	if _, err := r.q.Exec(context.Background(), query, tenantID, refKind, refID); err != nil {
		return fmt.Errorf("delete ledger by ref: %w", err)
	}
	return nil
}

// Aggregate agrupa ingresos/egresos por periodo con date_trunc. method vacío
// incluye todos los medios de pago (y los asientos por devengo sin medio).
func (r *LedgerRepo) Aggregate(ctx context.Context, tenantID string, from, to time.Time, granularity repository.Granularity, method entity.PaymentMethod) ([]repository.LedgerBucket, error) {
	if !repository.ValidGranularity(granularity) {
		return nil, domain.ErrInvalidInput
	}
	// granularity viene de un conjunto cerrado validado; no es input libre.
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', date) AS period,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0)  AS income,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0) AS expense
		FROM ledger_entries
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		  AND ($4 = '' OR method = $4)
		GROUP BY period
		ORDER BY period`, granularity)
	rows, err := r.q.Query(ctx, query, tenantID, from, to, string(method))
	if err != nil {
		return nil, fmt.Errorf("aggregate ledger: %w", err)
	}
	defer rows.Close()

	var out []repository.LedgerBucket
	for rows.Next() {
		var b repository.LedgerBucket
		if err := rows.Scan(&b.Period, &b.Income, &b.Expense); err != nil {
			return nil, fmt.Errorf("scan ledger bucket: %w", err)
		}
		b.Net = b.Income.Sub(b.Expense)
		out = append(out, b)
	}
	return out, rows.Err()
}
