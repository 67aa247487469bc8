package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, inventoryID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInputDTO{
		InventoryID: inventoryID,
		UserID:      userID,
		Type:        strings.ToLower(strings.TrimSpace(in.Type)),
		Quantity:    in.Quantity,
		Supplier:    strings.TrimSpace(in.Supplier),
		Reason:      strings.TrimSpace(in.Reason),
		Detail:      strings.TrimSpace(in.Detail),
	}
	return uc.RegisterMovement(ctx, input)
}
