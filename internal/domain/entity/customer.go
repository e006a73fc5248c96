package entity

import "time"

// Customer representa un cliente (contraparte de cotizaciones y facturas).
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
