package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/application/inventory"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/pkg/validate"
)

// ItemHandler maneja las peticiones HTTP del catálogo de ítems y kits.
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create crea un ítem (simple o kit con su composición).
// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.Message(err)})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return itemError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update actualiza un ítem y reemplaza su composición de kit.
// PUT /api/items/:id
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.SaveItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.Message(err)})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(out)
}

// List lista todos los ítems (cacheado).
// GET /api/items
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListNonKit lista los ítems simples, candidatos a componente de kit.
// GET /api/items/non-kit
func (h *ItemHandler) ListNonKit(c *fiber.Ctx) error {
	out, err := h.uc.ListNonKit(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID obtiene un ítem con su composición de kit si aplica.
// GET /api/items/:id
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un ítem y su composición.
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return itemError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, Message: "Ítem borrado correctamente", ID: c.Params("id")})
}

// KitComponents devuelve la composición de un kit con datos de cada componente.
// GET /api/items/:id/components
func (h *ItemHandler) KitComponents(c *fiber.Ctx) error {
	out, err := h.uc.KitComponents(c.Context(), c.Params("id"))
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(out)
}

// KitValue devuelve la suma quantity * unit_price de los componentes.
// GET /api/items/:id/kit-value
func (h *ItemHandler) KitValue(c *fiber.Ctx) error {
	value, err := h.uc.KitValue(c.Context(), c.Params("id"))
	if err != nil {
		return itemError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "kit_value": value})
}

func itemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de ítem ya existe"})
	case errors.Is(err, domain.ErrNestedKit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NESTED_KIT", Message: "un kit no puede contener otro kit"})
	case errors.Is(err, domain.ErrEmptyKit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_KIT", Message: "un kit requiere al menos un componente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
