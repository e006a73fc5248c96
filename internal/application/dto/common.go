package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MutationResponse resultado de toda operación mutadora de documentos.
// El éxito parcial del lazo de stock (algunas líneas fallaron) se reporta
// igualmente como Success=true con los contadores reducidos: la corrección del
// documento financiero tiene prioridad sobre la sincronía perfecta del stock.
type MutationResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ID            string `json:"id,omitempty"`
	StockUpdated  int    `json:"stock_updated,omitempty"`
	StockRestored int    `json:"stock_restored,omitempty"`
	StockClamped  int    `json:"stock_clamped,omitempty"`
	StockFailed   int    `json:"stock_failed,omitempty"`
}
