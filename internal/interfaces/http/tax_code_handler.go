package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/erp-core/internal/application/catalog"
	"github.com/tu-usuario/erp-core/internal/application/dto"
)

// TaxCodeHandler maneja las consultas del catálogo tributario.
type TaxCodeHandler struct {
	uc *catalog.TaxCodeUseCase
}

// NewTaxCodeHandler construye el handler.
func NewTaxCodeHandler(uc *catalog.TaxCodeUseCase) *TaxCodeHandler {
	return &TaxCodeHandler{uc: uc}
}

// AutoFill sugiere el código tributario para un nombre de producto.
// GET /api/tax-codes/autofill?name=...
func (h *TaxCodeHandler) AutoFill(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro 'name' requerido"})
	}
	out, err := h.uc.AutoFillResponse(name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Search busca códigos por término para autocompletado.
// GET /api/tax-codes/search?q=...
func (h *TaxCodeHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro 'q' requerido"})
	}
	out, err := h.uc.Search(term)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List devuelve el catálogo tributario.
// GET /api/tax-codes
func (h *TaxCodeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
