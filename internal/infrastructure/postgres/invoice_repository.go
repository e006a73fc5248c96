package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de una factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, customer_id, invoice_date, due_date, subtotal, tax_amount, total, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, nullIfEmpty(inv.CustomerID), inv.Date, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.Notes, inv.Status,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza la cabecera de una factura existente.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET number = $2, customer_id = $3, invoice_date = $4, due_date = $5,
			subtotal = $6, tax_amount = $7, total = $8, notes = $9, status = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, nullIfEmpty(inv.CustomerID), inv.Date, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.Notes, inv.Status, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, number, COALESCE(customer_id::text, ''), invoice_date, due_date, subtotal, tax_amount, total, notes, status, created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.Date, &inv.DueDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.Notes, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// List lista las facturas más recientes primero.
func (r *InvoiceRepo) List() ([]*entity.Invoice, error) {
	query := `
		SELECT id, number, COALESCE(customer_id::text, ''), invoice_date, due_date, subtotal, tax_amount, total, notes, status, created_at, updated_at
		FROM invoices ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.Date, &inv.DueDate,
			&inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.Notes, &inv.Status,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// Delete elimina la cabecera. Las líneas caen por FK ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de la factura.
func (r *InvoiceRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, item_id, item_name, tax_code, quantity, unit_price, discount, tax_rate, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, nullIfEmpty(line.ItemID), line.ItemName, line.TaxCode,
		line.Quantity, line.UnitPrice, line.Discount, line.TaxRate, line.Total, line.Position,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// LinesByDocument devuelve las líneas de la factura en su orden de presentación.
func (r *InvoiceRepo) LinesByDocument(invoiceID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, invoice_id, COALESCE(item_id::text, ''), item_name, tax_code, quantity, unit_price, discount, tax_rate, total, position
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ItemID, &l.ItemName, &l.TaxCode,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.TaxRate, &l.Total, &l.Position); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// DeleteLines borra todas las líneas de la factura (paso previo al reinsert).
func (r *InvoiceRepo) DeleteLines(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return nil
}
