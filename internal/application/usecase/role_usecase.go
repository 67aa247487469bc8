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

// RoleUseCase CRUD de roles.
type RoleUseCase struct {
	repo     repository.RoleRepository
	userRepo repository.UserRepository
	audit    Auditor
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository, userRepo repository.UserRepository, audit Auditor) *RoleUseCase {
	return &RoleUseCase{repo: repo, userRepo: userRepo, audit: audit}
}

// Create crea un rol con nombre único.
func (uc *RoleUseCase) Create(ctx context.Context, actorID string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role := &entity.Role{ID: uuid.New().String(), Name: in.Name, Description: in.Description, CreatedAt: time.Now()}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, duplicateRole(err)
	}
	record(ctx, uc.audit, actorID, entity.AuditCreate, "Rol", role.Name)
	return toRoleResponse(role), nil
}

// Update renombra o cambia la descripción del rol.
func (uc *RoleUseCase) Update(ctx context.Context, actorID, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	role.Name = in.Name
	role.Description = in.Description
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, duplicateRole(err)
	}
	role.UserCount, _ = uc.userRepo.CountByRole(ctx, role.ID)
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Rol", role.Name)
	return toRoleResponse(role), nil
}

// Delete rechaza la eliminación mientras haya usuarios con el rol (domain.InUseError).
func (uc *RoleUseCase) Delete(ctx context.Context, actorID, id string) error {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	n, err := uc.userRepo.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.InUseError{Count: n, What: "usuario(s)", Of: "rol"}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	record(ctx, uc.audit, actorID, entity.AuditDelete, "Rol", role.Name)
	return nil
}

// List todos los roles con la cantidad de usuarios asignados.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, *toRoleResponse(r))
	}
	return out, nil
}

func duplicateRole(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.FieldError("name", "Ya existe un rol con este nombre.")
	}
	return err
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	return &dto.RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description, UserCount: r.UserCount}
}
