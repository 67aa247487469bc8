package entity

import "time"

// Tipos de movimiento.
const (
	MovementEntrada = "entrada"
	MovementSalida  = "salida"
)

// InventoryMovement registro inmutable de una entrada o salida de stock.
type InventoryMovement struct {
	ID             string
	InventoryID    string
	Type           string
	Quantity       int
	Supplier       string
	Reason         string
	Detail         string
	ResultingStock int
	UserID         string // vacío si el usuario fue eliminado
	Username       string // join
	CreatedAt      time.Time
}
