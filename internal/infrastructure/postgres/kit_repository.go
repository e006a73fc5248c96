package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

var _ repository.KitRepository = (*KitRepo)(nil)

// KitRepo implementación del puerto KitRepository sobre PostgreSQL (usable con pool o tx).
type KitRepo struct {
	q Querier
}

// NewKitRepository construye el adaptador de persistencia para composición de kits.
func NewKitRepository(q Querier) *KitRepo {
	return &KitRepo{q: q}
}

// Components devuelve los componentes del kit; slice vacío si no tiene.
func (r *KitRepo) Components(kitID string) ([]*entity.KitComponent, error) {
	query := `
		SELECT id, kit_id, item_id, quantity
		FROM kit_components WHERE kit_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, kitID)
	if err != nil {
		return nil, fmt.Errorf("list kit components: %w", err)
	}
	defer rows.Close()
	var comps []*entity.KitComponent
	for rows.Next() {
		var c entity.KitComponent
		if err := rows.Scan(&c.ID, &c.KitID, &c.ItemID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan kit component: %w", err)
		}
		comps = append(comps, &c)
	}
	return comps, rows.Err()
}

// ReplaceComponents borra la composición actual y reinserta la nueva completa.
// La inserción es best-effort: un componente que falla no impide los demás;
// se devuelve cuántos quedaron guardados.
func (r *KitRepo) ReplaceComponents(kitID string, comps []*entity.KitComponent) (int, error) {
	if err := r.DeleteComponents(kitID); err != nil {
		return 0, err
	}
	saved := 0
	for _, c := range comps {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO kit_components (id, kit_id, item_id, quantity) VALUES ($1, $2, $3, $4)`,
			id, kitID, c.ItemID, c.Quantity,
		)
		if err != nil {
			continue
		}
		saved++
	}
	return saved, nil
}

// DeleteComponents elimina toda la composición de un kit.
func (r *KitRepo) DeleteComponents(kitID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM kit_components WHERE kit_id = $1`, kitID)
	if err != nil {
		return fmt.Errorf("delete kit components: %w", err)
	}
	return nil
}

// KitValue suma quantity * unit_price de los componentes del kit.
func (r *KitRepo) KitValue(kitID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(kc.quantity * i.unit_price), 0)
		FROM kit_components kc
		JOIN items i ON i.id = kc.item_id
		WHERE kc.kit_id = $1`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, kitID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("kit value: %w", err)
	}
	return total, nil
}
