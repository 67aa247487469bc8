package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina el producto y, en cascada, sus inventarios y movimientos.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Product, int, error)
	Count(ctx context.Context) (int, error)
}
