package dto

import "github.com/shopspring/decimal"

// DocumentLineRequest línea de documento tal como la envía el cliente.
// ItemID vacío = línea de texto libre (sin efecto de stock). ItemName y
// TaxCode son snapshots: se guardan tal cual y no se rederivan del catálogo.
type DocumentLineRequest struct {
	ItemID    string          `json:"item_id,omitempty"`
	ItemName  string          `json:"item_name" validate:"required"`
	TaxCode   string          `json:"tax_code,omitempty"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Total     decimal.Decimal `json:"total_price"`
}

// SaveInvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Number opcional al crear: si va vacío se genera uno.
type SaveInvoiceRequest struct {
	Number     string                `json:"invoice_number"`
	CustomerID string                `json:"customer_id" validate:"required"`
	Date       string                `json:"invoice_date" validate:"required"`
	DueDate    string                `json:"due_date,omitempty"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	TaxAmount  decimal.Decimal       `json:"tax_amount"`
	Total      decimal.Decimal       `json:"total_amount"`
	Notes      string                `json:"notes,omitempty"`
	Status     string                `json:"status,omitempty"` // Draft por defecto
	Items      []DocumentLineRequest `json:"items" validate:"dive"`
}

// SaveQuotationRequest body para POST /api/quotations y PUT /api/quotations/:id.
type SaveQuotationRequest struct {
	Number     string                `json:"quotation_number"`
	CustomerID string                `json:"customer_id" validate:"required"`
	Date       string                `json:"quotation_date" validate:"required"`
	ValidUntil string                `json:"valid_until,omitempty"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	TaxAmount  decimal.Decimal       `json:"tax_amount"`
	Total      decimal.Decimal       `json:"total_amount"`
	Notes      string                `json:"notes,omitempty"`
	Status     string                `json:"status,omitempty"`
	Items      []DocumentLineRequest `json:"items" validate:"dive"`
}

// DocumentLineResponse línea en respuestas de lectura.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id,omitempty"`
	ItemName  string          `json:"item_name"`
	TaxCode   string          `json:"tax_code,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Total     decimal.Decimal `json:"total_price"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"invoice_number"`
	CustomerID   string                 `json:"customer_id,omitempty"`
	CustomerName string                 `json:"customer_name,omitempty"`
	Date         string                 `json:"invoice_date"`
	DueDate      string                 `json:"due_date,omitempty"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	TaxAmount    decimal.Decimal        `json:"tax_amount"`
	Total        decimal.Decimal        `json:"total_amount"`
	Notes        string                 `json:"notes,omitempty"`
	Status       string                 `json:"status"`
	Items        []DocumentLineResponse `json:"items"`
}

// QuotationResponse cotización con detalle para GET /api/quotations/:id.
type QuotationResponse struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"quotation_number"`
	CustomerID   string                 `json:"customer_id,omitempty"`
	CustomerName string                 `json:"customer_name,omitempty"`
	Date         string                 `json:"quotation_date"`
	ValidUntil   string                 `json:"valid_until,omitempty"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	TaxAmount    decimal.Decimal        `json:"tax_amount"`
	Total        decimal.Decimal        `json:"total_amount"`
	Notes        string                 `json:"notes,omitempty"`
	Status       string                 `json:"status"`
	Items        []DocumentLineResponse `json:"items"`
}

// CheckStockRequest body para POST /api/invoices/check-stock.
// Lectura pura: reporta faltantes sin mutar nada.
type CheckStockRequest struct {
	Items []DocumentLineRequest `json:"items"`
}

// StockIssue faltante detectado para una línea (o un componente de kit).
type StockIssue struct {
	ItemID           string `json:"item_id"`
	ItemCode         string `json:"item_code"`
	ItemName         string `json:"item_name"`
	AvailableStock   int    `json:"available_stock"`
	RequiredQuantity int    `json:"required_quantity"`
	Shortage         int    `json:"shortage"`
}

// CheckStockResponse resultado de la verificación previa al finalizado.
type CheckStockResponse struct {
	SufficientStock bool         `json:"sufficient_stock"`
	StockIssues     []StockIssue `json:"stock_issues"`
	Success         bool         `json:"success"`
}
