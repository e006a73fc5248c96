package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

var _ repository.TaxCodeRepository = (*TaxCodeRepo)(nil)

// TaxCodeRepo implementación del puerto TaxCodeRepository sobre PostgreSQL.
// La tabla guarda la descripción original y una columna normalized_description
// (minúsculas, sin tildes) sobre la que corren todas las estrategias de
// coincidencia; el caso de uso normaliza el término con la misma regla.
type TaxCodeRepo struct {
	q Querier
}

// NewTaxCodeRepository construye el adaptador de consulta del catálogo tributario.
func NewTaxCodeRepository(q Querier) *TaxCodeRepo {
	return &TaxCodeRepo{q: q}
}

const taxCodeColumns = `id, code, description, rate`

// FindExact coincidencia exacta de la descripción normalizada.
func (r *TaxCodeRepo) FindExact(normalized string) (*entity.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE normalized_description = $1 LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, normalized))
}

// FindContains la descripción contiene el término; gana la descripción más corta.
func (r *TaxCodeRepo) FindContains(normalized string) (*entity.TaxCode, error) {
	query := `
		SELECT ` + taxCodeColumns + ` FROM tax_codes
		WHERE normalized_description LIKE '%' || $1 || '%'
		ORDER BY length(normalized_description) LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, normalized))
}

// FindWord el término aparece como palabra completa dentro de la descripción.
func (r *TaxCodeRepo) FindWord(normalized string) (*entity.TaxCode, error) {
	// \m y \M son los límites de palabra del regex de PostgreSQL.
	query := `
		SELECT ` + taxCodeColumns + ` FROM tax_codes
		WHERE normalized_description ~ ('\m' || $1 || '\M')
		ORDER BY length(normalized_description) LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, normalized))
}

// FindPrefix la descripción empieza con el término.
func (r *TaxCodeRepo) FindPrefix(normalized string) (*entity.TaxCode, error) {
	query := `
		SELECT ` + taxCodeColumns + ` FROM tax_codes
		WHERE normalized_description LIKE $1 || '%'
		ORDER BY length(normalized_description) LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, normalized))
}

// Search busca por código o descripción para el autocompletado de la UI.
func (r *TaxCodeRepo) Search(normalized string, limit int) ([]*entity.TaxCode, error) {
	query := `
		SELECT ` + taxCodeColumns + ` FROM tax_codes
		WHERE code ILIKE '%' || $1 || '%' OR normalized_description LIKE '%' || $1 || '%'
		ORDER BY code LIMIT $2`
	return r.list(query, normalized, limit)
}

// List devuelve el catálogo ordenado por código.
func (r *TaxCodeRepo) List(limit int) ([]*entity.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes ORDER BY code LIMIT $1`
	return r.list(query, limit)
}

func (r *TaxCodeRepo) scanOne(row pgx.Row) (*entity.TaxCode, error) {
	var tc entity.TaxCode
	err := row.Scan(&tc.ID, &tc.Code, &tc.Description, &tc.Rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax code: %w", err)
	}
	return &tc, nil
}

func (r *TaxCodeRepo) list(query string, args ...any) ([]*entity.TaxCode, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tax codes: %w", err)
	}
	defer rows.Close()
	var list []*entity.TaxCode
	for rows.Next() {
		var tc entity.TaxCode
		if err := rows.Scan(&tc.ID, &tc.Code, &tc.Description, &tc.Rate); err != nil {
			return nil, fmt.Errorf("scan tax code: %w", err)
		}
		list = append(list, &tc)
	}
	return list, rows.Err()
}
