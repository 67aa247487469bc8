package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición a partir de los inventarios en nivel bajo.
type ReplenishmentUseCase struct {
	invRepo repository.InventoryRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(invRepo repository.InventoryRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{invRepo: invRepo}
}

// GenerateReplenishmentList devuelve los inventarios con cantidad <= mínimo y la cantidad sugerida
// de pedido: hasta el máximo si está definido, si no hasta el doble del mínimo (al menos 1 unidad).
// limit <= 0 devuelve todos.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, limit int) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.invRepo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, inv := range items {
		target := inv.MinStock * 2
		if inv.MaxStock != nil {
			target = *inv.MaxStock
		}
		suggested := target - inv.Quantity
		if suggested < 1 {
			suggested = 1
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			InventoryID:       inv.ID,
			ProductID:         inv.ProductID,
			ProductName:       inv.ProductName,
			Location:          inv.Location,
			CurrentStock:      inv.Quantity,
			MinStock:          inv.MinStock,
			MaxStock:          inv.MaxStock,
			TargetStock:       target,
			SuggestedOrderQty: suggested,
			Deficit:           inv.MinStock - inv.Quantity,
		})
	}

	// Mayor déficit primero; desempate por nombre de producto
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.ProductName < b.ProductName
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
