package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del historial de movimientos (sólo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, m *entity.InventoryMovement) error
	ListByInventory(ctx context.Context, inventoryID string, f ListFilter) ([]*entity.InventoryMovement, int, error)
}
