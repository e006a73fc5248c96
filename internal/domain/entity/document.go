package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de documentos comerciales.
// Cotización: Draft -> Finalized; Draft|Finalized -> Cancelled.
// Factura: Draft -> Finalized -> Paid; borrado desde cualquier estado.
// Solo la transición de factura hacia Finalized mueve stock; su inverso
// (borrado de una factura finalizada) lo restaura.
const (
	StatusDraft     = "Draft"
	StatusFinalized = "Finalized"
	StatusPaid      = "Paid" // solo facturas
	StatusCancelled = "Cancelled"
)

// Quotation cabecera de una cotización. Las cotizaciones nunca mueven stock.
type Quotation struct {
	ID         string
	Number     string // número de documento, único, asignado externamente
	CustomerID string // referencia débil: puede quedar vacía si el cliente se borra
	Date       time.Time
	ValidUntil *time.Time
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Invoice cabecera de una factura.
type Invoice struct {
	ID         string
	Number     string
	CustomerID string
	Date       time.Time
	DueDate    *time.Time
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocumentLine línea de detalle, propiedad exclusiva de su documento padre.
// En updates las líneas se reemplazan completas (delete + reinsert), nunca se
// mezclan. ItemName y TaxCode son snapshots tomados al crear la línea y no se
// rederivan del catálogo: los documentos históricos quedan estables aunque el
// ítem cambie después.
type DocumentLine struct {
	ID         string
	DocumentID string
	ItemID     string // vacío = línea de texto libre, sin efecto de stock
	ItemName   string
	TaxCode    string
	Quantity   int
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	TaxRate    decimal.Decimal
	Total      decimal.Decimal
	Position   int // orden de inserción = orden de presentación
}

// HasItem indica si la línea referencia un ítem del inventario.
func (l *DocumentLine) HasItem() bool { return l.ItemID != "" }
