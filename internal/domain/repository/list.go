package repository

// ListFilter búsqueda, orden y paginación comunes a los listados.
// OrderBy es un nombre lógico ("name", "created_at", ...) que cada adaptador
// traduce a su columna; un valor desconocido usa el orden por defecto.
// Limit 0 significa sin límite (exportaciones completas).
type ListFilter struct {
	Search  string
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}
