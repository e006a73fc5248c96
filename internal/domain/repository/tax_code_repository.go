package repository

import "github.com/tu-usuario/erp-core/internal/domain/entity"

// TaxCodeRepository define el puerto de consulta del catálogo tributario.
// FindByDescription recibe el término ya normalizado (minúsculas, sin tildes)
// y aplica una sola estrategia de coincidencia; el caso de uso encadena las
// estrategias en orden exacto -> contiene -> palabra -> prefijo.
type TaxCodeRepository interface {
	FindExact(normalized string) (*entity.TaxCode, error)
	FindContains(normalized string) (*entity.TaxCode, error)
	FindWord(normalized string) (*entity.TaxCode, error)
	FindPrefix(normalized string) (*entity.TaxCode, error)
	Search(normalized string, limit int) ([]*entity.TaxCode, error)
	List(limit int) ([]*entity.TaxCode, error)
}
