package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

// ItemUseCase CRUD de ítems del catálogo, incluida la composición de kits.
// El guardado de un kit valida la composición (plana, no vacía) y reemplaza
// los componentes completos: delete + reinsert best-effort con conteo.
type ItemUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	kitRepo  repository.KitRepository
	finder   TaxCodeFinder
	cache    ItemsCache
	log      *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	kitRepo repository.KitRepository,
	finder TaxCodeFinder,
	cache ItemsCache,
	log *logger.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		kitRepo:  kitRepo,
		finder:   finder,
		cache:    cache,
		log:      log,
	}
}

// resolveTaxCode autocompleta el código tributario cuando viene vacío:
// coincidencia por nombre contra el catálogo, o DEFAULT si no hay match.
func (uc *ItemUseCase) resolveTaxCode(taxCode, name string) string {
	if taxCode != "" {
		return taxCode
	}
	if name != "" {
		if tc, err := uc.finder.AutoFill(name); err == nil && tc != nil {
			return tc.Code
		}
	}
	return entity.DefaultTaxCode
}

// validateKit valida la composición de un kit: al menos un componente, sin
// componentes que sean kits (composición plana, sin ciclos posibles) y sin
// auto-referencia.
func (uc *ItemUseCase) validateKit(kitID string, comps []dto.KitComponentRequest) error {
	if len(comps) == 0 {
		return domain.ErrEmptyKit
	}
	for _, c := range comps {
		if c.ItemID == kitID {
			return domain.ErrNestedKit
		}
		item, err := uc.itemRepo.GetByID(c.ItemID)
		if err != nil {
			return err
		}
		if item != nil && item.IsKit {
			return domain.ErrNestedKit
		}
	}
	return nil
}

func toComponents(kitID string, comps []dto.KitComponentRequest) []*entity.KitComponent {
	out := make([]*entity.KitComponent, 0, len(comps))
	for _, c := range comps {
		qty := c.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, &entity.KitComponent{
			ID:       uuid.New().String(),
			KitID:    kitID,
			ItemID:   c.ItemID,
			Quantity: qty,
		})
	}
	return out
}

// Create crea el ítem y, si es kit, guarda su composición. La inserción de
// componentes es best-effort: el resultado incluye cuántos se guardaron frente
// a cuántos se pidieron para que el llamador detecte guardado parcial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.SaveItemRequest) (*dto.SaveItemResponse, error) {
	if in.Code == "" || in.Name == "" || in.Stock == nil || in.MinStock == nil {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.ItemStatusActive
	}
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Stock:       max(0, *in.Stock),
		MinStock:    *in.MinStock,
		TaxCode:     uc.resolveTaxCode(in.TaxCode, in.Name),
		IsKit:       in.IsKit,
		KitName:     in.KitName,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if item.IsKit {
		if err := uc.validateKit(item.ID, in.KitItems); err != nil {
			return nil, err
		}
	}

	saved := 0
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, kitRepo repository.KitRepository) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if item.IsKit {
			var err error
			saved, err = kitRepo.ReplaceComponents(item.ID, toComponents(item.ID, in.KitItems))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)

	if item.IsKit && saved < len(in.KitItems) {
		uc.log.Warn().
			Str("kit_id", item.ID).
			Int("saved", saved).
			Int("requested", len(in.KitItems)).
			Msg("guardado parcial de componentes de kit")
	}
	return &dto.SaveItemResponse{
		Success:             true,
		Message:             "Ítem creado correctamente",
		ID:                  item.ID,
		ComponentsSaved:     saved,
		ComponentsRequested: len(in.KitItems),
	}, nil
}

// Update actualiza el ítem y reemplaza su composición de kit. Si el ítem dejó
// de ser kit, la composición se elimina.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.SaveItemRequest) (*dto.SaveItemResponse, error) {
	if in.Code == "" || in.Name == "" || in.Stock == nil || in.MinStock == nil {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	existing.Code = in.Code
	existing.Name = in.Name
	existing.Description = in.Description
	existing.UnitPrice = in.UnitPrice
	existing.Stock = max(0, *in.Stock)
	existing.MinStock = *in.MinStock
	existing.TaxCode = uc.resolveTaxCode(in.TaxCode, in.Name)
	existing.IsKit = in.IsKit
	existing.KitName = in.KitName
	if in.Status != "" {
		existing.Status = in.Status
	}
	existing.UpdatedAt = time.Now()

	if existing.IsKit {
		if err := uc.validateKit(id, in.KitItems); err != nil {
			return nil, err
		}
	}

	saved := 0
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, kitRepo repository.KitRepository) error {
		if err := itemRepo.Update(existing); err != nil {
			return err
		}
		if existing.IsKit {
			var err error
			saved, err = kitRepo.ReplaceComponents(id, toComponents(id, in.KitItems))
			return err
		}
		return kitRepo.DeleteComponents(id)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)

	return &dto.SaveItemResponse{
		Success:             true,
		Message:             "Ítem actualizado correctamente",
		ID:                  id,
		ComponentsSaved:     saved,
		ComponentsRequested: len(in.KitItems),
	}, nil
}

// Get obtiene un ítem; si es kit incluye su composición con detalle.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	out := itemToResponse(item)
	if item.IsKit {
		comps, err := uc.KitComponents(ctx, id)
		if err != nil {
			return nil, err
		}
		out.KitComponents = comps
	}
	return out, nil
}

// List devuelve todos los ítems, sirviendo desde el cache cuando hay entrada.
func (uc *ItemUseCase) List(ctx context.Context) ([]*dto.ItemResponse, error) {
	if payload, ok := uc.cache.GetList(ctx); ok {
		var cached []*dto.ItemResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Entrada corrupta: se ignora y se repuebla desde la BD.
		uc.cache.Invalidate(ctx)
	}

	items, err := uc.itemRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		resp := itemToResponse(item)
		if item.IsKit {
			comps, err := uc.KitComponents(ctx, item.ID)
			if err != nil {
				return nil, err
			}
			resp.KitComponents = comps
		}
		out = append(out, resp)
	}

	if payload, err := json.Marshal(out); err == nil {
		uc.cache.SetList(ctx, payload)
	}
	return out, nil
}

// ListNonKit devuelve los ítems activos que no son kits (candidatos a
// componer kits).
func (uc *ItemUseCase) ListNonKit(ctx context.Context) ([]*dto.ItemResponse, error) {
	items, err := uc.itemRepo.ListNonKit()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out, nil
}

// Delete borra el ítem. Las líneas de documentos históricos conservan sus
// snapshots; la referencia al ítem queda vacía.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.itemRepo.Delete(id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx)
	return nil
}

// KitComponents devuelve la composición de un kit con nombre, código y precio
// de cada componente.
func (uc *ItemUseCase) KitComponents(ctx context.Context, kitID string) ([]dto.KitComponentResponse, error) {
	comps, err := uc.kitRepo.Components(kitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KitComponentResponse, 0, len(comps))
	for _, c := range comps {
		resp := dto.KitComponentResponse{ItemID: c.ItemID, Quantity: c.Quantity}
		if item, err := uc.itemRepo.GetByID(c.ItemID); err == nil && item != nil {
			resp.ItemName = item.Name
			resp.ItemCode = item.Code
			resp.UnitPrice = item.UnitPrice
		}
		out = append(out, resp)
	}
	return out, nil
}

// KitValue calcula el valor total de un kit (suma de cantidad x precio).
func (uc *ItemUseCase) KitValue(ctx context.Context, kitID string) (decimal.Decimal, error) {
	item, err := uc.itemRepo.GetByID(kitID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if !item.IsKit {
		return decimal.Zero, fmt.Errorf("el ítem %s no es un kit: %w", kitID, domain.ErrInvalidInput)
	}
	return uc.kitRepo.KitValue(kitID)
}

func itemToResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          item.ID,
		Code:        item.Code,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		Stock:       item.Stock,
		MinStock:    item.MinStock,
		TaxCode:     item.TaxCode,
		IsKit:       item.IsKit,
		KitName:     item.KitName,
		Status:      item.Status,
	}
}
