package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.PurchaseInvoiceRepository = (*PurchaseInvoiceRepo)(nil)

// PurchaseInvoiceRepo implementación de facturas de compra sobre PostgreSQL.
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

const invoiceColumns = `id, tenant_id, supplier_id, number, date, total_amount, paid_amount, status, created_at, created_by`

// Create inserta la factura. El índice único (tenant, proveedor, número)
// convierte una carrera de número duplicado en ErrDuplicateInvoiceNumber.
func (r *PurchaseInvoiceRepo) Create(invoice *entity.PurchaseInvoice) error {
	query := `
		INSERT INTO purchase_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.TenantID, invoice.SupplierID, invoice.Number, invoice.Date,
		invoice.TotalAmount, invoice.PaidAmount, invoice.Status, invoice.CreatedAt, invoice.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("insert purchase invoice: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de factura.
func (r *PurchaseInvoiceRepo) CreateLine(line *entity.PurchaseInvoiceLine) error {
	query := `
		INSERT INTO purchase_invoice_lines (id, invoice_id, product_id, quantity, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ProductID, line.Quantity, line.UnitCost, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// CreatePayment inserta un abono (solo-inserción, jamás se edita).
func (r *PurchaseInvoiceRepo) CreatePayment(payment *entity.PurchaseInvoicePayment) error {
	query := `
		INSERT INTO purchase_invoice_payments (id, invoice_id, amount, method, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.InvoiceID, payment.Amount, payment.Method, payment.PaidAt, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice payment: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *PurchaseInvoiceRepo) GetByID(id string) (*entity.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la factura bloqueando su fila (registro de pagos).
func (r *PurchaseInvoiceRepo) GetForUpdate(id string) (*entity.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByNumber busca por (tenant, proveedor, número).
func (r *PurchaseInvoiceRepo) GetByNumber(tenantID, supplierID, number string) (*entity.PurchaseInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM purchase_invoices
		WHERE tenant_id = $1 AND supplier_id = $2 AND number = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, tenantID, supplierID, number))
}

// ListLines lista las líneas de la factura.
func (r *PurchaseInvoiceRepo) ListLines(invoiceID string) ([]*entity.PurchaseInvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_cost, line_total
		FROM purchase_invoice_lines WHERE invoice_id = $1`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseInvoiceLine
	for rows.Next() {
		var l entity.PurchaseInvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// ListPayments lista los abonos de la factura.
func (r *PurchaseInvoiceRepo) ListPayments(invoiceID string) ([]*entity.PurchaseInvoicePayment, error) {
	query := `
		SELECT id, invoice_id, amount, method, paid_at, created_at
		FROM purchase_invoice_payments WHERE invoice_id = $1 ORDER BY paid_at`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseInvoicePayment
	for rows.Next() {
		var p entity.PurchaseInvoicePayment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// List lista las facturas del tenant.
func (r *PurchaseInvoiceRepo) List(tenantID string) ([]*entity.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE tenant_id = $1 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseInvoice
	for rows.Next() {
		var i entity.PurchaseInvoice
		if err := rows.Scan(
			&i.ID, &i.TenantID, &i.SupplierID, &i.Number, &i.Date,
			&i.TotalAmount, &i.PaidAmount, &i.Status, &i.CreatedAt, &i.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}

// UpdatePaid persiste paid_amount y el estado derivado.
func (r *PurchaseInvoiceRepo) UpdatePaid(invoice *entity.PurchaseInvoice) error {
	query := `UPDATE purchase_invoices SET paid_amount = $1, status = $2 WHERE id = $3`
	_, err := r.q.Exec(context.Background(), query, invoice.PaidAmount, invoice.Status, invoice.ID)
	if err != nil {
		return fmt.Errorf("update invoice paid: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) scanOne(row pgx.Row) (*entity.PurchaseInvoice, error) {
	var i entity.PurchaseInvoice
	err := row.Scan(
		&i.ID, &i.TenantID, &i.SupplierID, &i.Number, &i.Date,
		&i.TotalAmount, &i.PaidAmount, &i.Status, &i.CreatedAt, &i.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", err)
	}
	return &i, nil
}
