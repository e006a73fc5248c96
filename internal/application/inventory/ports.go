package inventory

import (
	"context"

	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del guardado de un ítem
// con su composición de kit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
	) error) error
}

// ItemsCache cachea la lista de ítems serializada. Toda mutación de ítems
// invalida la entrada; una implementación nula es válida.
type ItemsCache interface {
	GetList(ctx context.Context) ([]byte, bool)
	SetList(ctx context.Context, payload []byte)
	Invalidate(ctx context.Context)
}

// TaxCodeFinder autocompleta el código tributario de un ítem por su nombre.
type TaxCodeFinder interface {
	AutoFill(name string) (*entity.TaxCode, error)
}
