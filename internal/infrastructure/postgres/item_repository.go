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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, description, unit_price, stock, min_stock, tax_code, is_kit, kit_name, status, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, description, unit_price, stock, min_stock, tax_code, is_kit, kit_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Description, item.UnitPrice,
		item.Stock, item.MinStock, item.TaxCode, item.IsKit, item.KitName,
		item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un ítem por su código único.
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE code = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code))
}

// List lista todos los ítems ordenados por nombre.
func (r *ItemRepo) List() ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name`
	return r.list(query)
}

// ListNonKit lista solo ítems simples, candidatos a componente de kit.
func (r *ItemRepo) ListNonKit() ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE is_kit = false ORDER BY name`
	return r.list(query)
}

// Update actualiza un ítem existente. El stock no se toca aquí: pasa por AdjustStock.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET code = $2, name = $3, description = $4, unit_price = $5, min_stock = $6,
			tax_code = $7, is_kit = $8, kit_name = $9, status = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Description, item.UnitPrice, item.MinStock,
		item.TaxCode, item.IsKit, item.KitName, item.Status, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// AdjustStock aplica stock = GREATEST(stock + delta, 0) en un único UPDATE,
// devolviendo el stock anterior y el resultante. El FOR UPDATE de la subquery
// serializa ajustes concurrentes sobre la misma fila.
func (r *ItemRepo) AdjustStock(itemID string, delta int) (*entity.StockAdjustment, error) {
	query := `
		UPDATE items i
		SET stock = GREATEST(i.stock + $2, 0), updated_at = now()
		FROM (SELECT id, stock AS old_stock FROM items WHERE id = $1 FOR UPDATE) prev
		WHERE i.id = prev.id
		RETURNING prev.old_stock, i.stock`
	adj := &entity.StockAdjustment{ItemID: itemID}
	err := r.q.QueryRow(context.Background(), query, itemID, delta).Scan(&adj.OldStock, &adj.NewStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	adj.Clamped = adj.NewStock != adj.OldStock+delta
	return adj, nil
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.UnitPrice, &it.Stock, &it.MinStock,
		&it.TaxCode, &it.IsKit, &it.KitName, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *ItemRepo) list(query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.UnitPrice, &it.Stock, &it.MinStock,
			&it.TaxCode, &it.IsKit, &it.KitName, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
