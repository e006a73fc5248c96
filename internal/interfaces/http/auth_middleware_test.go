package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma una app mínima con una ruta protegida y otra solo-admin.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	api := app.Group("/api", AuthMiddleware(testSecret))
	api.Get("/protegida", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	api.Delete("/solo-admin", RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-123", role, "erp-core-test", 5)
	require.NoError(t, err, "generar token de prueba no debe fallar")
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeaderDevuelve401(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodGet, "/api/protegida", "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalidoDevuelve401(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodGet, "/api/protegida", "no-es-un-jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FirmaDeOtroSecretoDevuelve401(t *testing.T) {
	app := buildTestApp(t)
	token, err := jwt.Generate("otro-secreto", "user-123", "admin", "erp-core-test", 5)
	require.NoError(t, err)

	resp := doRequest(t, app, fiber.MethodGet, "/api/protegida", token)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValidoExponeClaims(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodGet, "/api/protegida", tokenForRole(t, "vendedor"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "user-123", out["user_id"])
	assert.Equal(t, "vendedor", out["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodDelete, "/api/solo-admin", tokenForRole(t, "admin"))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "admin debe poder acceder")
}

func TestRequireRole_VendedorRecibe403(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodDelete, "/api/solo-admin", tokenForRole(t, "vendedor"))

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRequireRole_TokenSinRolRecibe401(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, fiber.MethodDelete, "/api/solo-admin", tokenForRole(t, ""))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decodeError(t, resp).Code)
}
