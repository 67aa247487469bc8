package dto

import "math"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage mantiene el OFFSET dentro de un int4 de PostgreSQL.
	MaxPage = math.MaxInt32 / MaxPerPage
)

// ListQuery parámetros comunes de los listados: búsqueda, orden y paginación.
type ListQuery struct {
	Search         string `query:"search"`
	OrderBy        string `query:"order_by"`
	OrderDirection string `query:"order_direction"`
	Page           int    `query:"page"`
	PerPage        int    `query:"per_page"`
	All            bool   `query:"all"` // sólo exportaciones: ignora la paginación
}

// Normalize aplica valores por defecto y límites.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.OrderDirection != "desc" {
		q.OrderDirection = "asc"
	}
}

// Desc true si el orden es descendente.
func (q ListQuery) Desc() bool { return q.OrderDirection == "desc" }

// Limit 0 cuando se piden todos los registros.
func (q ListQuery) Limit() int {
	if q.All {
		return 0
	}
	return q.PerPage
}

// Offset desplazamiento de la página actual.
func (q ListQuery) Offset() int {
	if q.All {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Page           int    `json:"page"`
	PerPage        int    `json:"per_page"`
	Total          int    `json:"total"`
	TotalPages     int    `json:"total_pages"`
	Search         string `json:"search,omitempty"`
	OrderBy        string `json:"order_by"`
	OrderDirection string `json:"order_direction"`
}

// NewPageMeta calcula el total de páginas (mínimo 1).
func NewPageMeta(q ListQuery, total int) PageMeta {
	pages := 1
	if q.PerPage > 0 && total > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.PerPage)))
	}
	return PageMeta{
		Page:           q.Page,
		PerPage:        q.PerPage,
		Total:          total,
		TotalPages:     pages,
		Search:         q.Search,
		OrderBy:        q.OrderBy,
		OrderDirection: q.OrderDirection,
	}
}

// ListResponse listado paginado.
type ListResponse[T any] struct {
	Success bool     `json:"success"`
	Items   []T      `json:"items"`
	Page    PageMeta `json:"page"`
}

// NewListResponse nunca devuelve items nil (se serializa como []).
func NewListResponse[T any](items []T, q ListQuery, total int) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Success: true, Items: items, Page: NewPageMeta(q, total)}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// MessageResponse respuesta simple de éxito.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
