package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var supplierOrder = orderSpec{allowed: []string{"name", "tax_id", "created_at"}, def: "name"}

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit Auditor
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, audit Auditor) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: audit}
}

// Create valida el RUT y crea el proveedor. Un RUT repetido es un error del campo tax_id.
func (uc *SupplierUseCase) Create(ctx context.Context, actorID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	now := time.Now()
	s := &entity.Supplier{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applySupplierRequest(s, in)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, duplicateTaxID(err)
	}
	record(ctx, uc.audit, actorID, entity.AuditCreate, "Proveedor", s.Name+" ("+s.TaxID+")")
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, actorID, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	applySupplierRequest(s, in)
	s.UpdatedAt = time.Now()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, duplicateTaxID(err)
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Proveedor", s.Name+" ("+s.TaxID+")")
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, actorID, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	record(ctx, uc.audit, actorID, entity.AuditDelete, "Proveedor", s.Name+" ("+s.TaxID+")")
	return nil
}

// List busca por nombre o RUT.
func (uc *SupplierUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.SupplierResponse], error) {
	f := toFilter(&q, supplierOrder)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return dto.NewListResponse(items, q, total), nil
}

func applySupplierRequest(s *entity.Supplier, in dto.SupplierRequest) {
	s.Name = in.Name
	s.Contact = in.Contact
	s.Address = in.Address
	s.TaxID = in.TaxID
	s.Email = in.Email
	s.SecondaryEmail = in.SecondaryEmail
}

func duplicateTaxID(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.FieldError("tax_id", "Ya existe un proveedor con este RUT.")
	}
	return err
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:             s.ID,
		Name:           s.Name,
		Contact:        s.Contact,
		Address:        s.Address,
		TaxID:          s.TaxID,
		Email:          s.Email,
		SecondaryEmail: s.SecondaryEmail,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
