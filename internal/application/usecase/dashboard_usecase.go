package usecase

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// DashboardLowStockLimit inventarios críticos mostrados en el dashboard.
const DashboardLowStockLimit = 5

// DashboardUseCase resumen de la página de inicio.
type DashboardUseCase struct {
	productRepo  repository.ProductRepository
	invRepo      repository.InventoryRepository
	supplierRepo repository.SupplierRepository
	userRepo     repository.UserRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	invRepo repository.InventoryRepository,
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, invRepo: invRepo, supplierRepo: supplierRepo, userRepo: userRepo}
}

// GetSummary contadores generales; proveedores y usuarios sólo si isAdmin.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, isAdmin bool) (*dto.DashboardSummaryDTO, error) {
	products, err := uc.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := uc.invRepo.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}
	value, err := uc.invRepo.StockValue(ctx)
	if err != nil {
		return nil, err
	}
	low, err := uc.invRepo.ListLowStock(ctx, DashboardLowStockLimit)
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardSummaryDTO{
		Products:    products,
		Inventories: levels.Low + levels.Medium + levels.High,
		StockLow:    levels.Low,
		StockMedium: levels.Medium,
		StockHigh:   levels.High,
		StockValue:  value,
		LowStock:    make([]dto.InventoryResponse, 0, len(low)),
	}
	for _, inv := range low {
		out.LowStock = append(out.LowStock, *toInventoryResponse(inv))
	}

	if !isAdmin {
		return out, nil
	}
	suppliers, err := uc.supplierRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, inactive, err := uc.userRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out.Suppliers = &suppliers
	out.ActiveUsers = &active
	out.InactiveUsers = &inactive
	return out, nil
}
