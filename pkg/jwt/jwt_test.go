package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secreto-de-pruebas"

func TestGenerateYParse(t *testing.T) {
	token, err := Generate(secret, "user-1", "admin", "erp-core", 5)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "erp-core", 5)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate(secret, "user-1", "admin", "erp-core", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate(secret, "user-1", "admin", "erp-core", -1)
	require.NoError(t, err)

	_, _, err = Parse(secret, token)
	assert.Error(t, err, "un token con expiración pasada debe rechazarse")
}

func TestParse_Basura(t *testing.T) {
	_, _, err := Parse(secret, "no.es.jwt")
	assert.Error(t, err)
}
