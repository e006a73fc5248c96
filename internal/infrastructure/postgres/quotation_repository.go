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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación del puerto QuotationRepository sobre PostgreSQL (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador de persistencia para cotizaciones.
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create persiste la cabecera de una cotización.
func (r *QuotationRepo) Create(qt *entity.Quotation) error {
	query := `
		INSERT INTO quotations (id, number, customer_id, quotation_date, valid_until, subtotal, tax_amount, total, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		qt.ID, qt.Number, nullIfEmpty(qt.CustomerID), qt.Date, qt.ValidUntil,
		qt.Subtotal, qt.TaxAmount, qt.Total, qt.Notes, qt.Status,
		qt.CreatedAt, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

// Update actualiza la cabecera de una cotización existente.
func (r *QuotationRepo) Update(qt *entity.Quotation) error {
	query := `
		UPDATE quotations SET number = $2, customer_id = $3, quotation_date = $4, valid_until = $5,
			subtotal = $6, tax_amount = $7, total = $8, notes = $9, status = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		qt.ID, qt.Number, nullIfEmpty(qt.CustomerID), qt.Date, qt.ValidUntil,
		qt.Subtotal, qt.TaxAmount, qt.Total, qt.Notes, qt.Status, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado de la cotización.
func (r *QuotationRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE quotations SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	query := `
		SELECT id, number, COALESCE(customer_id::text, ''), quotation_date, valid_until, subtotal, tax_amount, total, notes, status, created_at, updated_at
		FROM quotations WHERE id = $1`
	var qt entity.Quotation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&qt.ID, &qt.Number, &qt.CustomerID, &qt.Date, &qt.ValidUntil,
		&qt.Subtotal, &qt.TaxAmount, &qt.Total, &qt.Notes, &qt.Status,
		&qt.CreatedAt, &qt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return &qt, nil
}

// List lista las cotizaciones más recientes primero.
func (r *QuotationRepo) List() ([]*entity.Quotation, error) {
	query := `
		SELECT id, number, COALESCE(customer_id::text, ''), quotation_date, valid_until, subtotal, tax_amount, total, notes, status, created_at, updated_at
		FROM quotations ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		var qt entity.Quotation
		if err := rows.Scan(&qt.ID, &qt.Number, &qt.CustomerID, &qt.Date, &qt.ValidUntil,
			&qt.Subtotal, &qt.TaxAmount, &qt.Total, &qt.Notes, &qt.Status,
			&qt.CreatedAt, &qt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, &qt)
	}
	return list, rows.Err()
}

// Delete elimina la cabecera. Las líneas caen por FK ON DELETE CASCADE.
func (r *QuotationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de la cotización.
func (r *QuotationRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO quotation_lines (id, quotation_id, item_id, item_name, tax_code, quantity, unit_price, discount, tax_rate, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, nullIfEmpty(line.ItemID), line.ItemName, line.TaxCode,
		line.Quantity, line.UnitPrice, line.Discount, line.TaxRate, line.Total, line.Position,
	)
	if err != nil {
		return fmt.Errorf("insert quotation line: %w", err)
	}
	return nil
}

// LinesByDocument devuelve las líneas de la cotización en su orden de presentación.
func (r *QuotationRepo) LinesByDocument(quotationID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, quotation_id, COALESCE(item_id::text, ''), item_name, tax_code, quantity, unit_price, discount, tax_rate, total, position
		FROM quotation_lines WHERE quotation_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ItemID, &l.ItemName, &l.TaxCode,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.TaxRate, &l.Total, &l.Position); err != nil {
			return nil, fmt.Errorf("scan quotation line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// DeleteLines borra todas las líneas de la cotización (paso previo al reinsert).
func (r *QuotationRepo) DeleteLines(quotationID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quotation_lines WHERE quotation_id = $1`, quotationID)
	if err != nil {
		return fmt.Errorf("delete quotation lines: %w", err)
	}
	return nil
}
