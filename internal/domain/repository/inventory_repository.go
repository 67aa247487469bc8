package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia para existencias por ubicación.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	Update(ctx context.Context, inv *entity.Inventory) error
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error)
	GetByProductAndLocation(ctx context.Context, productID, location string) (*entity.Inventory, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Inventory, int, error)
	CountByLevel(ctx context.Context) (entity.StockLevelCounts, error)
	// ListLowStock inventarios en nivel bajo, los más críticos primero.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Inventory, error)
	// StockValue suma de cantidad * precio de referencia del producto.
	StockValue(ctx context.Context) (decimal.Decimal, error)
}
