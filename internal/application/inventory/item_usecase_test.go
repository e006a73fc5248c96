package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*entity.Item{}}
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	for _, other := range f.items {
		if other.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) { return f.items[id], nil }

func (f *fakeItemRepo) GetByCode(code string) (*entity.Item, error) {
	for _, it := range f.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) List() ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeItemRepo) ListNonKit() ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if !it.IsKit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(item *entity.Item) error { f.items[item.ID] = item; return nil }
func (f *fakeItemRepo) Delete(id string) error         { delete(f.items, id); return nil }

func (f *fakeItemRepo) AdjustStock(itemID string, delta int) (*entity.StockAdjustment, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	old := it.Stock
	next := old + delta
	if next < 0 {
		next = 0
	}
	it.Stock = next
	return &entity.StockAdjustment{ItemID: itemID, OldStock: old, NewStock: next, Clamped: next != old+delta}, nil
}

type fakeKitRepo struct {
	comps map[string][]*entity.KitComponent
}

func newFakeKitRepo() *fakeKitRepo {
	return &fakeKitRepo{comps: map[string][]*entity.KitComponent{}}
}

func (f *fakeKitRepo) Components(kitID string) ([]*entity.KitComponent, error) {
	return f.comps[kitID], nil
}

func (f *fakeKitRepo) ReplaceComponents(kitID string, comps []*entity.KitComponent) (int, error) {
	f.comps[kitID] = comps
	return len(comps), nil
}

func (f *fakeKitRepo) DeleteComponents(kitID string) error { delete(f.comps, kitID); return nil }

func (f *fakeKitRepo) KitValue(kitID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeTxRunner struct {
	items *fakeItemRepo
	kits  *fakeKitRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	kitRepo repository.KitRepository,
) error) error {
	return fn(f.items, f.kits)
}

// fakeCache registra las operaciones para verificar la invalidación.
type fakeCache struct {
	payload     []byte
	sets        int
	invalidates int
}

func (f *fakeCache) GetList(ctx context.Context) ([]byte, bool) {
	return f.payload, f.payload != nil
}
func (f *fakeCache) SetList(ctx context.Context, payload []byte) {
	f.payload = payload
	f.sets++
}
func (f *fakeCache) Invalidate(ctx context.Context) {
	f.payload = nil
	f.invalidates++
}

type fakeFinder struct {
	byName map[string]*entity.TaxCode
}

func (f *fakeFinder) AutoFill(name string) (*entity.TaxCode, error) {
	if tc, ok := f.byName[name]; ok {
		return tc, nil
	}
	return nil, fmt.Errorf("sin coincidencia para %q", name)
}

type itemFixture struct {
	uc     *ItemUseCase
	items  *fakeItemRepo
	kits   *fakeKitRepo
	cache  *fakeCache
	finder *fakeFinder
}

func newItemFixture() *itemFixture {
	items := newFakeItemRepo()
	kits := newFakeKitRepo()
	cache := &fakeCache{}
	finder := &fakeFinder{byName: map[string]*entity.TaxCode{}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := NewItemUseCase(&fakeTxRunner{items: items, kits: kits}, items, kits, finder, cache, log)
	return &itemFixture{uc: uc, items: items, kits: kits, cache: cache, finder: finder}
}

func intPtr(n int) *int { return &n }

func itemRequest(code, name string) dto.SaveItemRequest {
	return dto.SaveItemRequest{
		Code:     code,
		Name:     name,
		Stock:    intPtr(10),
		MinStock: intPtr(1),
		TaxCode:  "IVA19",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestItemCreate_Simple(t *testing.T) {
	fx := newItemFixture()

	res, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	assert.True(t, res.Success)
	saved := fx.items.items[res.ID]
	require.NotNil(t, saved)
	assert.Equal(t, "A-1", saved.Code)
	assert.Equal(t, entity.ItemStatusActive, saved.Status, "estado Active por defecto")
	assert.Equal(t, 1, fx.cache.invalidates, "toda mutación invalida el cache")
}

func TestItemCreate_StockNegativoSeRecortaACero(t *testing.T) {
	fx := newItemFixture()

	in := itemRequest("A-1", "Tornillo")
	in.Stock = intPtr(-5)
	res, err := fx.uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 0, fx.items.items[res.ID].Stock)
}

func TestItemCreate_CamposObligatorios(t *testing.T) {
	fx := newItemFixture()

	in := itemRequest("", "Tornillo")
	_, err := fx.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = itemRequest("A-1", "Tornillo")
	in.Stock = nil
	_, err = fx.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemCreate_AutocompletaCodigoTributario(t *testing.T) {
	fx := newItemFixture()
	fx.finder.byName["Camion de carga"] = &entity.TaxCode{Code: "TRANSP"}

	in := itemRequest("A-1", "Camion de carga")
	in.TaxCode = ""
	res, err := fx.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "TRANSP", fx.items.items[res.ID].TaxCode)

	// Sin coincidencia cae al código por defecto.
	in = itemRequest("A-2", "Cosa rarisima")
	in.TaxCode = ""
	res, err = fx.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultTaxCode, fx.items.items[res.ID].TaxCode)
}

func TestItemCreate_KitGuardaComposicion(t *testing.T) {
	fx := newItemFixture()
	a, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)
	b, err := fx.uc.Create(context.Background(), itemRequest("A-2", "Tuerca"))
	require.NoError(t, err)

	in := itemRequest("K-1", "Kit de fijación")
	in.IsKit = true
	in.KitItems = []dto.KitComponentRequest{
		{ItemID: a.ID, Quantity: 4},
		{ItemID: b.ID, Quantity: 4},
	}
	res, err := fx.uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ComponentsSaved)
	assert.Equal(t, 2, res.ComponentsRequested)
	comps := fx.kits.comps[res.ID]
	require.Len(t, comps, 2)
	assert.Equal(t, a.ID, comps[0].ItemID)
	assert.Equal(t, 4, comps[0].Quantity)
}

func TestItemCreate_KitVacioSeRechaza(t *testing.T) {
	fx := newItemFixture()

	in := itemRequest("K-1", "Kit vacío")
	in.IsKit = true
	_, err := fx.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmptyKit)
}

func TestItemCreate_KitDeKitsSeRechaza(t *testing.T) {
	fx := newItemFixture()
	a, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	inner := itemRequest("K-1", "Kit interno")
	inner.IsKit = true
	inner.KitItems = []dto.KitComponentRequest{{ItemID: a.ID, Quantity: 1}}
	innerRes, err := fx.uc.Create(context.Background(), inner)
	require.NoError(t, err)

	outer := itemRequest("K-2", "Kit de kits")
	outer.IsKit = true
	outer.KitItems = []dto.KitComponentRequest{{ItemID: innerRes.ID, Quantity: 1}}
	_, err = fx.uc.Create(context.Background(), outer)
	assert.ErrorIs(t, err, domain.ErrNestedKit, "la composición es plana: un componente no puede ser kit")
}

func TestItemUpdate_AutoReferenciaSeRechaza(t *testing.T) {
	fx := newItemFixture()
	res, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	in := itemRequest("A-1", "Tornillo")
	in.IsKit = true
	in.KitItems = []dto.KitComponentRequest{{ItemID: res.ID, Quantity: 1}}
	_, err = fx.uc.Update(context.Background(), res.ID, in)
	assert.ErrorIs(t, err, domain.ErrNestedKit)
}

func TestItemUpdate_DejarDeSerKitBorraComposicion(t *testing.T) {
	fx := newItemFixture()
	a, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	kit := itemRequest("K-1", "Kit")
	kit.IsKit = true
	kit.KitItems = []dto.KitComponentRequest{{ItemID: a.ID, Quantity: 2}}
	kitRes, err := fx.uc.Create(context.Background(), kit)
	require.NoError(t, err)
	require.Len(t, fx.kits.comps[kitRes.ID], 1)

	plain := itemRequest("K-1", "Ya no es kit")
	_, err = fx.uc.Update(context.Background(), kitRes.ID, plain)
	require.NoError(t, err)

	assert.Empty(t, fx.kits.comps[kitRes.ID])
}

func TestItemUpdate_NoExiste(t *testing.T) {
	fx := newItemFixture()
	_, err := fx.uc.Update(context.Background(), "fantasma", itemRequest("A-1", "Tornillo"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List con cache
// ──────────────────────────────────────────────────────────────────────────────

func TestItemList_PueblaYSirveDesdeCache(t *testing.T) {
	fx := newItemFixture()
	_, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	out, err := fx.uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, fx.cache.sets, "el primer List puebla el cache")

	// El segundo List sirve desde cache aunque la BD cambie por fuera.
	fx.items.items["externo"] = &entity.Item{ID: "externo", Code: "X", Name: "Fuera de cache"}
	out, err = fx.uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, fx.cache.sets)
}

func TestItemList_EntradaCorruptaSeIgnora(t *testing.T) {
	fx := newItemFixture()
	_, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	fx.cache.payload = []byte("{no es json")
	out, err := fx.uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A-1", out[0].Code)

	var cached []*dto.ItemResponse
	require.NoError(t, json.Unmarshal(fx.cache.payload, &cached), "la entrada corrupta se repobló")
}

func TestItemDelete_InvalidaCache(t *testing.T) {
	fx := newItemFixture()
	res, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	before := fx.cache.invalidates
	require.NoError(t, fx.uc.Delete(context.Background(), res.ID))
	assert.Equal(t, before+1, fx.cache.invalidates)
	assert.NotContains(t, fx.items.items, res.ID)

	assert.ErrorIs(t, fx.uc.Delete(context.Background(), res.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas de kits
// ──────────────────────────────────────────────────────────────────────────────

func TestItemGet_KitIncluyeDetalleDeComponentes(t *testing.T) {
	fx := newItemFixture()
	a, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	kit := itemRequest("K-1", "Kit")
	kit.IsKit = true
	kit.KitItems = []dto.KitComponentRequest{{ItemID: a.ID, Quantity: 3}}
	kitRes, err := fx.uc.Create(context.Background(), kit)
	require.NoError(t, err)

	out, err := fx.uc.Get(context.Background(), kitRes.ID)
	require.NoError(t, err)
	require.Len(t, out.KitComponents, 1)
	assert.Equal(t, "Tornillo", out.KitComponents[0].ItemName)
	assert.Equal(t, "A-1", out.KitComponents[0].ItemCode)
	assert.Equal(t, 3, out.KitComponents[0].Quantity)
}

func TestItemKitValue_NoKitEsInvalido(t *testing.T) {
	fx := newItemFixture()
	res, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	_, err = fx.uc.KitValue(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.KitValue(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemListNonKit_ExcluyeKits(t *testing.T) {
	fx := newItemFixture()
	a, err := fx.uc.Create(context.Background(), itemRequest("A-1", "Tornillo"))
	require.NoError(t, err)

	kit := itemRequest("K-1", "Kit")
	kit.IsKit = true
	kit.KitItems = []dto.KitComponentRequest{{ItemID: a.ID, Quantity: 1}}
	_, err = fx.uc.Create(context.Background(), kit)
	require.NoError(t, err)

	out, err := fx.uc.ListNonKit(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A-1", out[0].Code)
}
