package entity

import "time"

// User usuario de la aplicación (autenticación por email + contraseña).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string // "admin" | "vendedor"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
