package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var productOrder = orderSpec{allowed: []string{"name", "reference_price", "unit_measure", "created_at"}, def: "name"}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía inventarios.
type ProductUseCase struct {
	repo  repository.ProductRepository
	audit Auditor
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, audit Auditor) *ProductUseCase {
	return &ProductUseCase{repo: repo, audit: audit}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Description:    in.Description,
		ReferencePrice: in.ReferencePrice,
		UnitMeasure:    in.UnitMeasure,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	record(ctx, uc.audit, actorID, entity.AuditCreate, "Producto", product.Name)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update reemplaza los datos editables del producto.
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.Description = in.Description
	product.ReferencePrice = in.ReferencePrice
	product.UnitMeasure = in.UnitMeasure
	product.UpdatedAt = time.Now()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Producto", product.Name)
	return toProductResponse(product), nil
}

// Delete elimina el producto; sus inventarios y movimientos se eliminan en cascada.
func (uc *ProductUseCase) Delete(ctx context.Context, actorID, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	record(ctx, uc.audit, actorID, entity.AuditDelete, "Producto", product.Name)
	return nil
}

// List busca por nombre, descripción o precio.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.ProductResponse], error) {
	f := toFilter(&q, productOrder)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return dto.NewListResponse(items, q, total), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		ReferencePrice: p.ReferencePrice,
		UnitMeasure:    p.UnitMeasure,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
