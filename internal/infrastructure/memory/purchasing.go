package memory

import (
	"sort"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.PurchaseInvoiceRepository = (*InvoiceStore)(nil)

// InvoiceStore facturas de compra en memoria.
type InvoiceStore struct{ s *Store }

func (r *InvoiceStore) Create(invoice *entity.PurchaseInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.invoices {
		if i.TenantID == invoice.TenantID && i.SupplierID == invoice.SupplierID && i.Number == invoice.Number {
			return domain.ErrDuplicateInvoiceNumber
		}
	}
	r.s.invoices[invoice.ID] = *invoice
	return nil
}

func (r *InvoiceStore) CreateLine(line *entity.PurchaseInvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invLines[line.InvoiceID] = append(r.s.invLines[line.InvoiceID], *line)
	return nil
}

func (r *InvoiceStore) CreatePayment(payment *entity.PurchaseInvoicePayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invPayments[payment.InvoiceID] = append(r.s.invPayments[payment.InvoiceID], *payment)
	return nil
}

func (r *InvoiceStore) GetByID(id string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i, ok := r.s.invoices[id]; ok {
		cp := i
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el mutex serializa.
func (r *InvoiceStore) GetForUpdate(id string) (*entity.PurchaseInvoice, error) {
	return r.GetByID(id)
}

func (r *InvoiceStore) GetByNumber(tenantID, supplierID, number string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.invoices {
		if i.TenantID == tenantID && i.SupplierID == supplierID && i.Number == number {
			cp := i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InvoiceStore) ListLines(invoiceID string) ([]*entity.PurchaseInvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseInvoiceLine
	for _, l := range r.s.invLines[invoiceID] {
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *InvoiceStore) ListPayments(invoiceID string) ([]*entity.PurchaseInvoicePayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseInvoicePayment
	for _, p := range r.s.invPayments[invoiceID] {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.Before(out[j].PaidAt) })
	return out, nil
}

func (r *InvoiceStore) List(tenantID string) ([]*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseInvoice
	for _, i := range r.s.invoices {
		if i.TenantID == tenantID {
			cp := i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *InvoiceStore) UpdatePaid(invoice *entity.PurchaseInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.invoices[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.PaidAmount = invoice.PaidAmount
	existing.Status = invoice.Status
	r.s.invoices[invoice.ID] = existing
	return nil
}
