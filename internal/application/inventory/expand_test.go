package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/domain/entity"
)

// Un ítem sin composición se expande a sí mismo con cantidad 1: los llamadores
// tratan kits y no-kits de manera uniforme.
func TestExpandKit_NoKitSeMapeaASiMismo(t *testing.T) {
	kits := newFakeKitRepo()

	comps, err := ExpandKit(kits, "item-1")
	require.NoError(t, err)

	require.Len(t, comps, 1)
	assert.Equal(t, "item-1", comps[0].ItemID)
	assert.Equal(t, 1, comps[0].Quantity)
}

func TestExpandKit_KitDevuelveSusComponentes(t *testing.T) {
	kits := newFakeKitRepo()
	kits.comps["kit-1"] = []*entity.KitComponent{
		{KitID: "kit-1", ItemID: "a", Quantity: 3},
		{KitID: "kit-1", ItemID: "b", Quantity: 1},
	}

	comps, err := ExpandKit(kits, "kit-1")
	require.NoError(t, err)

	require.Len(t, comps, 2)
	assert.Equal(t, "a", comps[0].ItemID)
	assert.Equal(t, 3, comps[0].Quantity)
}
