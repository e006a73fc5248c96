package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
)

// TaxCodeUseCase búsqueda y autocompletado de códigos tributarios por nombre
// de ítem. Las estrategias de coincidencia se encadenan en orden: exacta,
// contiene, palabra completa, prefijo; la primera que devuelve resultado gana.
type TaxCodeUseCase struct {
	repo repository.TaxCodeRepository
}

// NewTaxCodeUseCase construye el caso de uso.
func NewTaxCodeUseCase(repo repository.TaxCodeRepository) *TaxCodeUseCase {
	return &TaxCodeUseCase{repo: repo}
}

// normalizer quita marcas diacríticas tras descomponer (NFD) y recompone, de
// modo que "Lámpara" y "lampara" coinciden contra el catálogo.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize deja el término en minúsculas, sin tildes y sin espacios
// sobrantes, listo para comparar contra descripciones del catálogo.
func Normalize(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// AutoFill busca el código tributario que mejor coincide con el nombre.
// Devuelve nil (sin error) cuando ninguna estrategia coincide.
func (uc *TaxCodeUseCase) AutoFill(name string) (*entity.TaxCode, error) {
	clean := Normalize(name)
	if clean == "" {
		return nil, nil
	}
	strategies := []func(string) (*entity.TaxCode, error){
		uc.repo.FindExact,
		uc.repo.FindContains,
		uc.repo.FindWord,
		uc.repo.FindPrefix,
	}
	for _, find := range strategies {
		tc, err := find(clean)
		if err != nil {
			continue
		}
		if tc != nil {
			return tc, nil
		}
	}
	return nil, nil
}

// AutoFillResponse versión DTO de AutoFill para el handler HTTP.
func (uc *TaxCodeUseCase) AutoFillResponse(name string) (*dto.TaxCodeAutoFillResponse, error) {
	tc, err := uc.AutoFill(name)
	if err != nil {
		return nil, err
	}
	out := &dto.TaxCodeAutoFillResponse{Success: true}
	if tc != nil {
		out.Code = &tc.Code
		out.Description = &tc.Description
		out.MatchedDescription = &tc.Description
	}
	return out, nil
}

// Search busca códigos por término (lista corta para selección manual).
func (uc *TaxCodeUseCase) Search(term string) ([]*dto.TaxCodeResponse, error) {
	clean := Normalize(term)
	if clean == "" {
		return []*dto.TaxCodeResponse{}, nil
	}
	list, err := uc.repo.Search(clean, 10)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// List devuelve el catálogo (acotado, para listas desplegables).
func (uc *TaxCodeUseCase) List() ([]*dto.TaxCodeResponse, error) {
	list, err := uc.repo.List(100)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

func toResponses(list []*entity.TaxCode) []*dto.TaxCodeResponse {
	out := make([]*dto.TaxCodeResponse, 0, len(list))
	for _, tc := range list {
		out = append(out, &dto.TaxCodeResponse{Code: tc.Code, Description: tc.Description, Rate: tc.Rate})
	}
	return out
}
