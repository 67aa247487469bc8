package usecase

import (
	"strings"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// orderSpec columnas ordenables de un listado y su orden por defecto.
type orderSpec struct {
	allowed []string
	def     string
	defDesc bool
}

func (o orderSpec) has(col string) bool {
	for _, a := range o.allowed {
		if a == col {
			return true
		}
	}
	return false
}

// toFilter normaliza la consulta (por defecto, límites, columna permitida) y la traduce al filtro
// del repositorio. q queda con los valores efectivos para los metadatos de página.
func toFilter(q *dto.ListQuery, o orderSpec) repository.ListFilter {
	q.Search = strings.TrimSpace(q.Search)
	q.OrderBy = strings.TrimSpace(q.OrderBy)
	if !o.has(q.OrderBy) {
		q.OrderBy = o.def
		if q.OrderDirection == "" && o.defDesc {
			q.OrderDirection = "desc"
		}
	}
	q.Normalize()
	return repository.ListFilter{
		Search:  q.Search,
		OrderBy: q.OrderBy,
		Desc:    q.Desc(),
		Limit:   q.Limit(),
		Offset:  q.Offset(),
	}
}
