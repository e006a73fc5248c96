package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/domain/entity"
)

// fakeTaxCodeRepo devuelve respuestas programadas por estrategia y registra el
// orden en que se consultan.
type fakeTaxCodeRepo struct {
	exact    *entity.TaxCode
	contains *entity.TaxCode
	word     *entity.TaxCode
	prefix   *entity.TaxCode
	failing  map[string]bool // estrategias que devuelven error
	calls    []string
}

func (f *fakeTaxCodeRepo) find(name string, tc *entity.TaxCode) (*entity.TaxCode, error) {
	f.calls = append(f.calls, name)
	if f.failing[name] {
		return nil, fmt.Errorf("fallo simulado en %s", name)
	}
	return tc, nil
}

func (f *fakeTaxCodeRepo) FindExact(n string) (*entity.TaxCode, error) {
	return f.find("exact", f.exact)
}
func (f *fakeTaxCodeRepo) FindContains(n string) (*entity.TaxCode, error) {
	return f.find("contains", f.contains)
}
func (f *fakeTaxCodeRepo) FindWord(n string) (*entity.TaxCode, error) {
	return f.find("word", f.word)
}
func (f *fakeTaxCodeRepo) FindPrefix(n string) (*entity.TaxCode, error) {
	return f.find("prefix", f.prefix)
}
func (f *fakeTaxCodeRepo) Search(n string, limit int) ([]*entity.TaxCode, error) {
	f.calls = append(f.calls, "search")
	return []*entity.TaxCode{{Code: "IVA19", Description: "general"}}, nil
}
func (f *fakeTaxCodeRepo) List(limit int) ([]*entity.TaxCode, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Camión":        "camion",
		"  LÁMPARA  ":   "lampara",
		"tornillo":      "tornillo",
		"Niño pequeño":  "nino pequeno",
		"":              "",
		"   ":           "",
		"Café colombia": "cafe colombia",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AutoFill
// ──────────────────────────────────────────────────────────────────────────────

func TestAutoFill_LaPrimeraEstrategiaConResultadoGana(t *testing.T) {
	repo := &fakeTaxCodeRepo{
		contains: &entity.TaxCode{Code: "CONT"},
		prefix:   &entity.TaxCode{Code: "PREF"},
	}
	uc := NewTaxCodeUseCase(repo)

	tc, err := uc.AutoFill("Camión")
	require.NoError(t, err)
	require.NotNil(t, tc)

	assert.Equal(t, "CONT", tc.Code)
	assert.Equal(t, []string{"exact", "contains"}, repo.calls, "se corta en la primera coincidencia")
}

func TestAutoFill_OrdenCompletoDeEstrategias(t *testing.T) {
	repo := &fakeTaxCodeRepo{}
	uc := NewTaxCodeUseCase(repo)

	tc, err := uc.AutoFill("algo sin match")
	require.NoError(t, err)

	assert.Nil(t, tc, "sin coincidencia devuelve nil sin error")
	assert.Equal(t, []string{"exact", "contains", "word", "prefix"}, repo.calls)
}

func TestAutoFill_UnaEstrategiaConErrorNoCortaLaCadena(t *testing.T) {
	repo := &fakeTaxCodeRepo{
		failing: map[string]bool{"exact": true},
		word:    &entity.TaxCode{Code: "WORD"},
	}
	uc := NewTaxCodeUseCase(repo)

	tc, err := uc.AutoFill("taladro")
	require.NoError(t, err)
	require.NotNil(t, tc)
	assert.Equal(t, "WORD", tc.Code)
}

func TestAutoFill_NombreVacioNoConsultaNada(t *testing.T) {
	repo := &fakeTaxCodeRepo{}
	uc := NewTaxCodeUseCase(repo)

	tc, err := uc.AutoFill("   ")
	require.NoError(t, err)
	assert.Nil(t, tc)
	assert.Empty(t, repo.calls)
}

func TestAutoFillResponse(t *testing.T) {
	repo := &fakeTaxCodeRepo{exact: &entity.TaxCode{Code: "IVA19", Description: "tarifa general"}}
	uc := NewTaxCodeUseCase(repo)

	out, err := uc.AutoFillResponse("algo")
	require.NoError(t, err)
	require.NotNil(t, out.Code)
	assert.Equal(t, "IVA19", *out.Code)
	assert.Equal(t, "tarifa general", *out.Description)

	// Sin coincidencia los campos quedan nulos pero la respuesta es exitosa.
	out, err = NewTaxCodeUseCase(&fakeTaxCodeRepo{}).AutoFillResponse("nada")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Nil(t, out.Code)
}

func TestSearch_TerminoVacioNoConsulta(t *testing.T) {
	repo := &fakeTaxCodeRepo{}
	uc := NewTaxCodeUseCase(repo)

	out, err := uc.Search("  ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, repo.calls)

	out, err = uc.Search("IVA")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "IVA19", out[0].Code)
}
