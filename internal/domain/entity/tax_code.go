package entity

import "github.com/shopspring/decimal"

// DefaultTaxCode se asigna cuando no hay código tributario y la búsqueda por
// descripción tampoco encuentra uno.
const DefaultTaxCode = "DEFAULT"

// TaxCode entrada del catálogo tributario: código, descripción y tarifa.
// Se usa para autocompletar el código de un ítem por coincidencia de nombre.
type TaxCode struct {
	ID          string
	Code        string
	Description string
	Rate        decimal.Decimal
}
