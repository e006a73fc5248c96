package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/erp-core/internal/application/auth"
	"github.com/tu-usuario/erp-core/internal/application/billing"
	"github.com/tu-usuario/erp-core/internal/application/catalog"
	"github.com/tu-usuario/erp-core/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *inventory.ItemUseCase
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	QuotationUC *billing.QuotationUseCase
	PDFUC       *billing.PDFUseCase
	TaxCodeUC   *catalog.TaxCodeUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	// PingDB verifica la conexión con la base de datos para /health.
	PingDB func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Health (público)
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.PingDB != nil {
			if err := deps.PingDB(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items y kits (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/non-kit", itemHandler.ListNonKit)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", RequireRole("admin"), itemHandler.Delete)
	items.Get("/:id/components", itemHandler.KitComponents)
	items.Get("/:id/kit-value", itemHandler.KitValue)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", RequireRole("admin"), customerHandler.Delete)

	// Quotations (protegido; nunca mueven stock)
	quotations := protected.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Put("/:id", quotationHandler.Update)
	quotations.Delete("/:id", quotationHandler.Delete)
	quotations.Post("/:id/finalize", quotationHandler.Finalize)
	quotations.Post("/:id/cancel", quotationHandler.Cancel)

	// Invoices (protegido; única fuente de movimientos de stock)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/check-stock", invoiceHandler.CheckStock)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/finalize", invoiceHandler.Finalize)
	invoices.Post("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Tax codes (protegido)
	taxCodes := protected.Group("/tax-codes")
	taxCodeHandler := NewTaxCodeHandler(deps.TaxCodeUC)
	taxCodes.Get("/", taxCodeHandler.List)
	taxCodes.Get("/autofill", taxCodeHandler.AutoFill)
	taxCodes.Get("/search", taxCodeHandler.Search)
}
