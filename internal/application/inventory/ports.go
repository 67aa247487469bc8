package inventory

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad al registrar movimientos de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// AuditRecorder registra acciones sobre entidades (CREAR, EDITAR, BORRAR).
type AuditRecorder interface {
	Record(ctx context.Context, userID, action, entityName, detail string)
}
