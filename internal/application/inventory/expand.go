package inventory

import (
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

// ExpandKit aplana un ítem a sus pares (ítem, cantidad) para el cálculo de
// stock. Un ítem sin composición se mapea a sí mismo con cantidad 1, de modo
// que los llamadores tratan kits y no-kits de manera uniforme. La expansión es
// de exactamente un nivel: la validación al guardar kits rechaza componentes
// que sean kits, así que no hay recursión posible.
func ExpandKit(kits repository.KitRepository, itemID string) ([]*entity.KitComponent, error) {
	comps, err := kits.Components(itemID)
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return []*entity.KitComponent{{KitID: itemID, ItemID: itemID, Quantity: 1}}, nil
	}
	return comps, nil
}
