package billing

import (
	"context"

	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La cabecera y las líneas de un documento se
// guardan bajo este contrato: o se confirma todo o se revierte todo. El lazo
// de stock corre dentro de la misma tx pero con política propia (ver
// StockReconciler).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
		invoiceRepo repository.InvoiceRepository,
		quotationRepo repository.QuotationRepository,
	) error) error
}

// NumberGenerator genera números de documento cuando el cliente no envía uno.
type NumberGenerator interface {
	Next(prefix string) string
}
