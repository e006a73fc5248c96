package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/erp-core/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
// AdjustStock es la única vía de escritura incremental sobre la columna stock:
// todo ajuste (reconciliación, restauración) pasa por aquí para que el clamp a
// cero y el reporte del resultado se apliquen de manera uniforme.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCode(code string) (*entity.Item, error)
	List() ([]*entity.Item, error)
	ListNonKit() ([]*entity.Item, error)
	Update(item *entity.Item) error
	Delete(id string) error
	// AdjustStock aplica newStock = max(0, stock + delta) en un único UPDATE
	// aritmético (sin read-modify-write separado) y devuelve stock anterior,
	// stock resultante y si hubo clamp. ErrNotFound si el ítem no existe.
	AdjustStock(itemID string, delta int) (*entity.StockAdjustment, error)
}

// KitRepository define el puerto para la composición de kits.
type KitRepository interface {
	// Components devuelve los componentes del kit; vacío si no es kit.
	Components(kitID string) ([]*entity.KitComponent, error)
	// ReplaceComponents borra la composición y la reinserta completa.
	// Inserción best-effort: devuelve cuántos componentes se guardaron.
	ReplaceComponents(kitID string, comps []*entity.KitComponent) (int, error)
	DeleteComponents(kitID string) error
	// KitValue suma quantity * unit_price de los componentes.
	KitValue(kitID string) (decimal.Decimal, error)
}
