package dto

import "github.com/shopspring/decimal"

// KitComponentRequest componente de un kit en el body de guardado de ítems.
type KitComponentRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// SaveItemRequest body para POST /api/items y PUT /api/items/:id.
// TaxCode vacío dispara el autocompletado por nombre contra el catálogo
// tributario; si tampoco coincide se asigna el código DEFAULT.
type SaveItemRequest struct {
	Code        string                `json:"code" validate:"required"`
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description,omitempty"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Stock       *int                  `json:"stock" validate:"required"`
	MinStock    *int                  `json:"min_stock" validate:"required"`
	TaxCode     string                `json:"tax_code,omitempty"`
	IsKit       bool                  `json:"is_kit"`
	KitName     string                `json:"kit_name,omitempty"`
	Status      string                `json:"status,omitempty"`
	KitItems    []KitComponentRequest `json:"kit_items,omitempty" validate:"dive"`
}

// KitComponentResponse componente de kit en respuestas de lectura.
type KitComponentResponse struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	ItemCode  string          `json:"item_code"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemResponse ítem en respuestas de lectura.
type ItemResponse struct {
	ID            string                 `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	UnitPrice     decimal.Decimal        `json:"unit_price"`
	Stock         int                    `json:"stock"`
	MinStock      int                    `json:"min_stock"`
	TaxCode       string                 `json:"tax_code,omitempty"`
	IsKit         bool                   `json:"is_kit"`
	KitName       string                 `json:"kit_name,omitempty"`
	Status        string                 `json:"status"`
	KitComponents []KitComponentResponse `json:"kit_components,omitempty"`
}

// SaveItemResponse resultado de crear/actualizar un ítem.
// ComponentsSaved/ComponentsRequested permiten detectar guardado parcial de la
// composición del kit (inserción best-effort).
type SaveItemResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	ID                  string `json:"id,omitempty"`
	ComponentsSaved     int    `json:"components_saved,omitempty"`
	ComponentsRequested int    `json:"components_requested,omitempty"`
}
