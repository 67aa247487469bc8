package inventory

import (
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// ApplyMovement calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// entrada: actual + cantidad; salida: actual - cantidad, nunca negativo.
func ApplyMovement(current int, movementType string, quantity int) (int, error) {
	if quantity <= 0 {
		return current, domain.FieldError("quantity", "La cantidad debe ser mayor que 0.")
	}
	switch movementType {
	case entity.MovementEntrada:
		return current + quantity, nil
	case entity.MovementSalida:
		if quantity > current {
			return current, domain.ErrInsufficientStock
		}
		return current - quantity, nil
	default:
		return current, domain.FieldError("type", "Tipo de movimiento inválido. Use entrada o salida.")
	}
}
