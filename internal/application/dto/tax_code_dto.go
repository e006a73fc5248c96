package dto

import "github.com/shopspring/decimal"

// TaxCodeResponse entrada del catálogo tributario en respuestas.
type TaxCodeResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

// TaxCodeAutoFillResponse resultado del autocompletado por nombre de ítem.
// Code nulo = sin coincidencia (el llamador decide si usa el código DEFAULT).
type TaxCodeAutoFillResponse struct {
	Code               *string `json:"tax_code"`
	Description        *string `json:"description"`
	MatchedDescription *string `json:"matched_description"`
	Success            bool    `json:"success"`
}
