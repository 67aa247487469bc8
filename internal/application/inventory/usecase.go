package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/inventory"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// RegisterMovementUseCase registra entradas y salidas de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	audit    AuditRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, audit AuditRecorder, log *logger.Logger) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		audit:    audit,
		log:      log.Named("inventory"),
		now:      time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento sobre un inventario.
type MovementInputDTO struct {
	InventoryID string
	UserID      string
	Type        string
	Quantity    int
	Supplier    string
	Reason      string
	Detail      string
}

// RegisterMovement inicia una transacción, bloquea la fila del inventario, aplica el movimiento,
// vuelve a validar los invariantes de stock y guarda el movimiento con el stock resultante.
// Una salida mayor al stock disponible devuelve domain.ErrInsufficientStock y no modifica nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	if input.InventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementEntrada && input.Type != entity.MovementSalida {
		return nil, domain.FieldError("type", "Tipo de movimiento inválido. Use entrada o salida.")
	}
	if input.Quantity <= 0 {
		return nil, domain.FieldError("quantity", "La cantidad debe ser mayor que 0.")
	}

	now := uc.now()
	var mov *entity.InventoryMovement
	var productName string

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		// Bloquea la fila para evitar condiciones de carrera entre movimientos concurrentes
		inv, err := invRepo.GetForUpdate(ctx, input.InventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		newQty, err := inventory.ApplyMovement(inv.Quantity, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		inv.Quantity = newQty
		inv.UpdatedAt = now
		if err := inv.Validate(); err != nil {
			return err
		}
		if err := invRepo.Update(ctx, inv); err != nil {
			return err
		}
		mov = &entity.InventoryMovement{
			ID:             uuid.New().String(),
			InventoryID:    inv.ID,
			Type:           input.Type,
			Quantity:       input.Quantity,
			Supplier:       input.Supplier,
			Reason:         input.Reason,
			Detail:         input.Detail,
			ResultingStock: newQty,
			UserID:         input.UserID,
			CreatedAt:      now,
		}
		productName = inv.ProductName
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("inventory_id", mov.InventoryID).Str("type", mov.Type).
		Int("quantity", mov.Quantity).Int("resulting_stock", mov.ResultingStock).Msg("movimiento registrado")
	if uc.audit != nil {
		uc.audit.Record(ctx, input.UserID, entity.AuditUpdate, "Inventario",
			fmt.Sprintf("%s de %d unidades de %s (stock: %d)", mov.Type, mov.Quantity, productName, mov.ResultingStock))
	}
	return ToMovementResponse(mov), nil
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		InventoryID:    m.InventoryID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Supplier:       m.Supplier,
		Reason:         m.Reason,
		Detail:         m.Detail,
		ResultingStock: m.ResultingStock,
		UserID:         m.UserID,
		Username:       m.Username,
		CreatedAt:      m.CreatedAt,
	}
}
