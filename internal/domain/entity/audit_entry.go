package entity

import "time"

// Acciones registradas en la auditoría.
const (
	AuditCreate = "CREAR"
	AuditUpdate = "EDITAR"
	AuditDelete = "BORRAR"
)

// AuditEntry registro de auditoría (sólo inserción).
type AuditEntry struct {
	ID        string
	UserID    string // vacío si el usuario ya no existe
	Username  string // join
	Action    string
	Entity    string
	Detail    string
	CreatedAt time.Time
}
