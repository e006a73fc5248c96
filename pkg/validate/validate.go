package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	// Reporta los errores con el nombre del campo JSON, no el del struct Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct valida un DTO según sus tags `validate`.
func Struct(s any) error {
	return v.Struct(s)
}

// Message convierte los errores de validación a un mensaje legible para el cliente.
func Message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fieldMessage(e))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("el campo '%s' es obligatorio", e.Field())
	case "email":
		return fmt.Sprintf("el campo '%s' debe ser un email válido", e.Field())
	case "gt":
		return fmt.Sprintf("el campo '%s' debe ser mayor que %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("el campo '%s' debe ser mayor o igual a %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("el campo '%s' debe tener al menos %s caracteres", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("el campo '%s' supera la longitud máxima de %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("el campo '%s' debe ser uno de: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("el campo '%s' no pasó la validación '%s'", e.Field(), e.Tag())
	}
}
