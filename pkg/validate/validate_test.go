package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "ana@acme.co", Quantity: 3}))
}

func TestStruct_Invalido(t *testing.T) {
	err := Struct(sample{Email: "no-es-email", Quantity: 0})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "'email'", "los errores usan el nombre JSON del campo")
	assert.Contains(t, msg, "debe ser un email válido")
	assert.Contains(t, msg, "'quantity' debe ser mayor que 0")
}

func TestMessage_ErrorAjeno(t *testing.T) {
	err := Struct(nil)
	require.Error(t, err)
	assert.NotEmpty(t, Message(err), "un error que no es de validación se devuelve tal cual")
}
