package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/erp-core/internal/application/billing"
	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/pkg/validate"
)

// QuotationHandler maneja el ciclo de vida HTTP de cotizaciones.
// Las cotizaciones nunca tocan stock.
type QuotationHandler struct {
	uc *billing.QuotationUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *billing.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// Create crea una cotización; siempre nace en Draft.
// POST /api/quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.Message(err)})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return quotationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update reemplaza cabecera y líneas completas.
// PUT /api/quotations/:id
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.Message(err)})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return quotationError(c, err)
	}
	return c.JSON(out)
}

// Delete borra la cotización y sus líneas. Nunca mueve stock.
// DELETE /api/quotations/:id
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return quotationError(c, err)
	}
	return c.JSON(out)
}

// Finalize transiciona a Finalized (idempotente).
// POST /api/quotations/:id/finalize
func (h *QuotationHandler) Finalize(c *fiber.Ctx) error {
	out, err := h.uc.Finalize(c.Context(), c.Params("id"))
	if err != nil {
		return quotationError(c, err)
	}
	return c.JSON(out)
}

// Cancel transiciona a Cancelled (idempotente).
// POST /api/quotations/:id/cancel
func (h *QuotationHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return quotationError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene la cotización con sus líneas.
// GET /api/quotations/:id
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return quotationError(c, err)
	}
	return c.JSON(out)
}

// List lista las cabeceras de cotizaciones.
// GET /api/quotations
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func quotationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cotización o cliente no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el número de cotización ya existe"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "transición de estado no permitida"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
