// Package memory implementa todos los puertos de repositorio sobre mapas en
// memoria. Lo usan los tests de la capa de aplicación: misma semántica que
// los adaptadores PostgreSQL (nil en ausencia, errores sentinela en
// duplicados), sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/retail-pos/internal/application/purchasing"
	"github.com/tu-usuario/retail-pos/internal/application/quotes"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria sobre un mutex compartido.
type Store struct {
	mu sync.Mutex

	tenants   map[string]entity.Tenant
	users     map[string]entity.User
	products  map[string]entity.Product
	suppliers map[string]entity.Supplier

	balances map[string]entity.StockBalance // clave tenant|product
	movs     map[string]entity.StockMovement
	movLines map[string][]entity.StockMovementLine // por movimiento

	salesByID    map[string]entity.Sale
	saleLines    map[string][]entity.SaleLine
	salePayments map[string][]entity.SalePayment

	drafts     map[string]entity.SaleDraft // clave tenant|user
	draftLines map[string][]entity.SaleDraftLine

	invoices    map[string]entity.PurchaseInvoice
	invLines    map[string][]entity.PurchaseInvoiceLine
	invPayments map[string][]entity.PurchaseInvoicePayment

	quotesByID map[string]entity.Quote
	quoteLines map[string][]entity.QuoteLine

	ledger map[string]entity.LedgerEntry

	Tenants   *TenantStore
	Users     *UserStore
	Products  *ProductStore
	Suppliers *SupplierStore
	Stock     *StockStore
	Movements *MovementStore
	Sales     *SaleStore
	Drafts    *DraftStore
	Invoices  *InvoiceStore
	Quotes    *QuoteStore
	Ledger    *LedgerStore
}

// NewStore crea un store vacío.
func NewStore() *Store {
	s := &Store{
		tenants:      map[string]entity.Tenant{},
		users:        map[string]entity.User{},
		products:     map[string]entity.Product{},
		suppliers:    map[string]entity.Supplier{},
		balances:     map[string]entity.StockBalance{},
		movs:         map[string]entity.StockMovement{},
		movLines:     map[string][]entity.StockMovementLine{},
		salesByID:    map[string]entity.Sale{},
		saleLines:    map[string][]entity.SaleLine{},
		salePayments: map[string][]entity.SalePayment{},
		drafts:       map[string]entity.SaleDraft{},
		draftLines:   map[string][]entity.SaleDraftLine{},
		invoices:     map[string]entity.PurchaseInvoice{},
		invLines:     map[string][]entity.PurchaseInvoiceLine{},
		invPayments:  map[string][]entity.PurchaseInvoicePayment{},
		quotesByID:   map[string]entity.Quote{},
		quoteLines:   map[string][]entity.QuoteLine{},
		ledger:       map[string]entity.LedgerEntry{},
	}
	s.Tenants = &TenantStore{s: s}
	s.Users = &UserStore{s: s}
	s.Products = &ProductStore{s: s}
	s.Suppliers = &SupplierStore{s: s}
	s.Stock = &StockStore{s: s}
	s.Movements = &MovementStore{s: s}
	s.Sales = &SaleStore{s: s}
	s.Drafts = &DraftStore{s: s}
	s.Invoices = &InvoiceStore{s: s}
	s.Quotes = &QuoteStore{s: s}
	s.Ledger = &LedgerStore{s: s}
	return s
}

func key2(a, b string) string { return a + "|" + b }

// TxRunner en memoria: sin transacción real. Los casos de uso validan todo
// antes de escribir, de modo que los tests de atomicidad siguen valiendo.
var _ sales.TxRunner = (*Store)(nil)
var _ purchasing.TxRunner = (*Store)(nil)
var _ quotes.TxRunner = (*Store)(nil)

// Run ejecuta fn con los repos del store.
func (s *Store) Run(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	ledgerRepo repository.LedgerRepository,
	draftRepo repository.SaleDraftRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(s.Sales, s.Stock, s.Movements, s.Ledger, s.Drafts, s.Products)
}

// RunPurchasing ejecuta fn con los repos del ciclo de compras.
func (s *Store) RunPurchasing(_ context.Context, fn func(
	invoiceRepo repository.PurchaseInvoiceRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return fn(s.Invoices, s.Stock, s.Movements, s.Ledger)
}

// RunQuotes ejecuta fn con los repos de la conversión de cotización.
func (s *Store) RunQuotes(_ context.Context, fn func(
	quoteRepo repository.QuoteRepository,
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return fn(s.Quotes, s.Sales, s.Stock, s.Movements, s.Ledger)
}
