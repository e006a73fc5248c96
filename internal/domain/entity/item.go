package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ítem del catálogo.
const (
	ItemStatusActive   = "Active"
	ItemStatusInactive = "Inactive"
)

// Item representa una unidad vendible del inventario.
// Stock es un entero y nunca se persiste negativo: toda reducción que lo
// dejaría bajo cero se recorta a cero (clamp) y se reporta al llamador.
type Item struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Stock       int
	MinStock    int
	TaxCode     string // código tributario (snapshot en líneas de documento)
	IsKit       bool
	KitName     string
	Status      string // Active | Inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KitComponent relación de composición: un kit posee pares (ítem, cantidad).
// La composición es plana: un componente no puede ser a su vez un kit.
type KitComponent struct {
	ID       string
	KitID    string
	ItemID   string
	Quantity int
}

// StockAdjustment resultado de un ajuste atómico de stock.
// Clamped indica que la reducción habría dejado stock negativo y se recortó a
// cero; distinto de un ajuste limpio, los llamadores deben poder diferenciarlo.
type StockAdjustment struct {
	ItemID   string
	OldStock int
	NewStock int
	Clamped  bool
}
