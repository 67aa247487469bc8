package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var (
	inventoryOrder = orderSpec{allowed: []string{"product", "quantity", "location", "updated_at"}, def: "updated_at", defDesc: true}
	movementOrder  = orderSpec{allowed: []string{"created_at", "quantity"}, def: "created_at", defDesc: true}
)

// InventoryUseCase alta, edición y consulta de existencias por ubicación.
// Los movimientos de stock se registran con inventory.RegisterMovementUseCase.
type InventoryUseCase struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
	audit       Auditor
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	repo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	audit Auditor,
) *InventoryUseCase {
	return &InventoryUseCase{repo: repo, productRepo: productRepo, movRepo: movRepo, audit: audit}
}

// Create valida los invariantes de stock y que no exista otro inventario del producto en la ubicación.
func (uc *InventoryUseCase) Create(ctx context.Context, actorID string, in dto.InventoryRequest) (*dto.InventoryResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.FieldError("product_id", "El producto no existe.")
	}
	inv := &entity.Inventory{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Location:    locationOrDefault(in.Location),
		UpdatedAt:   time.Now(),
	}
	if err := uc.save(ctx, inv, true); err != nil {
		return nil, err
	}
	record(ctx, uc.audit, actorID, entity.AuditCreate, "Inventario", inventoryDetail(inv))
	return toInventoryResponse(inv), nil
}

// Update reemplaza cantidad, límites, producto y ubicación.
func (uc *InventoryUseCase) Update(ctx context.Context, actorID, id string, in dto.InventoryRequest) (*dto.InventoryResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if in.ProductID != inv.ProductID {
		product, err := uc.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.FieldError("product_id", "El producto no existe.")
		}
		inv.ProductID = product.ID
		inv.ProductName = product.Name
	}
	inv.Quantity = in.Quantity
	inv.MinStock = in.MinStock
	inv.MaxStock = in.MaxStock
	inv.Location = locationOrDefault(in.Location)
	inv.UpdatedAt = time.Now()
	if err := uc.save(ctx, inv, false); err != nil {
		return nil, err
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Inventario", inventoryDetail(inv))
	return toInventoryResponse(inv), nil
}

// save aplica Validate antes de cada escritura y traduce la violación de unicidad (producto, ubicación).
func (uc *InventoryUseCase) save(ctx context.Context, inv *entity.Inventory, create bool) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	existing, err := uc.repo.GetByProductAndLocation(ctx, inv.ProductID, inv.Location)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != inv.ID {
		return duplicateLocation()
	}
	if create {
		err = uc.repo.Create(ctx, inv)
	} else {
		err = uc.repo.Update(ctx, inv)
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return duplicateLocation()
	}
	return err
}

func duplicateLocation() error {
	return domain.FieldError("location", "Ya existe un inventario para este producto en esta ubicación.")
}

// GetByID obtiene un inventario con su nivel de stock.
func (uc *InventoryUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(inv), nil
}

// List busca por nombre de producto o ubicación; por defecto los modificados más recientemente primero.
func (uc *InventoryUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.InventoryResponse], error) {
	f := toFilter(&q, inventoryOrder)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInventoryResponse(inv))
	}
	return dto.NewListResponse(items, q, total), nil
}

// ListMovements historial de movimientos de un inventario.
func (uc *InventoryUseCase) ListMovements(ctx context.Context, inventoryID string, q dto.ListQuery) (*dto.ListResponse[dto.MovementResponse], error) {
	inv, err := uc.repo.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	f := toFilter(&q, movementOrder)
	list, total, err := uc.movRepo.ListByInventory(ctx, inventoryID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
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
		})
	}
	return dto.NewListResponse(items, q, total), nil
}

func locationOrDefault(loc string) string {
	if loc = strings.TrimSpace(loc); loc == "" {
		return entity.DefaultLocation
	}
	return loc
}

func inventoryDetail(inv *entity.Inventory) string {
	return fmt.Sprintf("%s en %s (cantidad: %d)", inv.ProductName, inv.Location, inv.Quantity)
}

func toInventoryResponse(inv *entity.Inventory) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:          inv.ID,
		ProductID:   inv.ProductID,
		ProductName: inv.ProductName,
		Quantity:    inv.Quantity,
		MinStock:    inv.MinStock,
		MaxStock:    inv.MaxStock,
		Location:    inv.Location,
		Level:       string(inv.Level()),
		UpdatedAt:   inv.UpdatedAt,
	}
}
