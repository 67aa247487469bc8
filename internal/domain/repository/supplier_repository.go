package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Supplier, int, error)
	Count(ctx context.Context) (int, error)
}
