package billing

import (
	"context"

	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

// InvoicePDFGenerator puerto para la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer, lines []*entity.DocumentLine) ([]byte, error)
}

// PDFUseCase arma los datos de la factura y delega la generación del PDF.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, customerRepo: customerRepo, generator: generator}
}

// InvoicePDF genera el PDF de la factura con sus líneas y el cliente.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, id string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.LinesByDocument(id)
	if err != nil {
		return nil, err
	}
	var customer *entity.Customer
	if inv.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(inv.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	return uc.generator.GenerateInvoicePDF(ctx, inv, customer, lines)
}
