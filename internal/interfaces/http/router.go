package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/catalog"
	"github.com/tu-usuario/retail-pos/internal/application/purchasing"
	"github.com/tu-usuario/retail-pos/internal/application/quotes"
	"github.com/tu-usuario/retail-pos/internal/application/reporting"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *catalog.ProductUseCase
	SupplierUC *catalog.SupplierUseCase
	DraftUC    *sales.DraftUseCase
	SaleUC     *sales.SaleUseCase
	InvoiceUC  *purchasing.InvoiceUseCase
	QuoteUC    *quotes.QuoteUseCase
	ReportUC   *reporting.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Deactivate)

	// Proveedores
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Carrito del usuario autenticado
	draft := protected.Group("/draft")
	draftHandler := NewDraftHandler(deps.DraftUC)
	draft.Get("/", draftHandler.Get)
	draft.Put("/lines", draftHandler.SetLine)
	draft.Delete("/lines/:productId", draftHandler.RemoveLine)
	draft.Delete("/", draftHandler.Clear)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/confirm", saleHandler.Confirm)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Put("/:id/lines", RequireRole(entity.RoleAdmin), saleHandler.Adjust)
	salesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), saleHandler.Delete)

	// Facturas de compra
	invoices := protected.Group("/purchase-invoices", RequireRole(entity.RoleAdmin, entity.RoleBodeguero))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/payments", invoiceHandler.RegisterPayment)

	// Cotizaciones
	quotesGroup := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotesGroup.Post("/", quoteHandler.Create)
	quotesGroup.Get("/:id", quoteHandler.GetByID)
	quotesGroup.Post("/:id/send", quoteHandler.Send)
	quotesGroup.Post("/:id/cancel", quoteHandler.Cancel)
	quotesGroup.Post("/:id/convert", quoteHandler.Convert)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/ledger", reportHandler.Ledger)
	reports.Get("/stock", reportHandler.Stock)
}
