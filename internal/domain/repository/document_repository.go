package repository

import "github.com/tu-usuario/erp-core/internal/domain/entity"

// InvoiceRepository puerto de persistencia para facturas y sus líneas.
// La cabecera y las líneas de un documento se guardan dentro de una misma
// transacción (TxRunner): cualquier fallo de persistencia aborta el guardado
// completo, a diferencia del lazo best-effort de stock.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	Update(inv *entity.Invoice) error
	UpdateStatus(id, status string) error
	GetByID(id string) (*entity.Invoice, error)
	List() ([]*entity.Invoice, error)
	Delete(id string) error

	CreateLine(line *entity.DocumentLine) error
	LinesByDocument(invoiceID string) ([]*entity.DocumentLine, error)
	DeleteLines(invoiceID string) error
}

// QuotationRepository puerto de persistencia para cotizaciones y sus líneas.
type QuotationRepository interface {
	Create(q *entity.Quotation) error
	Update(q *entity.Quotation) error
	UpdateStatus(id, status string) error
	GetByID(id string) (*entity.Quotation, error)
	List() ([]*entity.Quotation, error)
	Delete(id string) error

	CreateLine(line *entity.DocumentLine) error
	LinesByDocument(quotationID string) ([]*entity.DocumentLine, error)
	DeleteLines(quotationID string) error
}
