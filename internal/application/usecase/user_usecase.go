package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/logger"
	"github.com/jhoicas/dulceria-api/pkg/password"
)

var userOrder = orderSpec{allowed: []string{"username", "name", "email", "created_at"}, def: "username"}

// TemporaryPasswordLength largo de las contraseñas temporales emitidas por un administrador.
const TemporaryPasswordLength = 12

// UserUseCase administración de usuarios (sólo Administrador).
type UserUseCase struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
	audit    Auditor
	policy   password.Policy
	log      *logger.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roleRepo repository.RoleRepository, audit Auditor, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{
		repo:     repo,
		roleRepo: roleRepo,
		audit:    audit,
		policy:   password.DefaultPolicy(),
		log:      log.Named("users"),
	}
}

// Create da de alta un usuario. La contraseña inicial es temporal: must_change_password queda
// activo salvo que se envíe explícitamente en false.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := uc.role(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkPolicy(in.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:                 uuid.New().String(),
		Username:           strings.TrimSpace(in.Username),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Name:               strings.TrimSpace(in.Name),
		Phone:              strings.TrimSpace(in.Phone),
		RoleID:             role.ID,
		RoleName:           role.Name,
		PasswordHash:       string(hash),
		IsActive:           boolOr(in.IsActive, true),
		MustChangePassword: boolOr(in.MustChangePassword, true),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, uniqueUserError(err)
	}
	record(ctx, uc.audit, actorID, entity.AuditCreate, "Usuario", user.Username)
	return toUserResponse(user), nil
}

// Update edita datos, rol y estado. Un password no vacío se trata como temporal (igual que en Create).
// Un administrador no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := uc.role(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil && !*in.IsActive && actorID == id {
		return nil, domain.ErrSelfAction
	}
	user.Username = strings.TrimSpace(in.Username)
	user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user.Name = strings.TrimSpace(in.Name)
	user.Phone = strings.TrimSpace(in.Phone)
	user.RoleID = role.ID
	user.RoleName = role.Name
	user.IsActive = boolOr(in.IsActive, user.IsActive)
	if in.Password != "" {
		if err := uc.checkPolicy(in.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		user.MustChangePassword = boolOr(in.MustChangePassword, true)
	} else if boolOr(in.MustChangePassword, false) {
		// sin contraseña nueva el flag sólo puede activarse; se limpia al cambiarla el propio usuario
		user.MustChangePassword = true
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, uniqueUserError(err)
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Usuario", user.Username)
	return toUserResponse(user), nil
}

// Delete elimina un usuario. Sus movimientos y registros de auditoría quedan sin usuario.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfAction
	}
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	record(ctx, uc.audit, actorID, entity.AuditDelete, "Usuario", user.Username)
	return nil
}

// SetActive activa o desactiva la cuenta.
func (uc *UserUseCase) SetActive(ctx context.Context, actorID, id string, active bool) (*dto.UserResponse, error) {
	if actorID == id && !active {
		return nil, domain.ErrSelfAction
	}
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	state := "desactivado"
	if active {
		state = "activado"
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Usuario", user.Username+" "+state)
	return toUserResponse(user), nil
}

// ResetPassword emite una contraseña temporal, obliga a cambiarla en el próximo acceso y desbloquea la cuenta.
func (uc *UserUseCase) ResetPassword(ctx context.Context, actorID, id string) (*dto.TemporaryPasswordResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	temp, err := password.Temporary(TemporaryPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = true
	user.Unlock()
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("actor_id", actorID).Msg("contraseña temporal emitida")
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Usuario", user.Username+": contraseña temporal")
	return &dto.TemporaryPasswordResponse{
		Success:           true,
		Message:           "Contraseña temporal generada. El usuario deberá cambiarla al iniciar sesión.",
		TemporaryPassword: temp,
	}, nil
}

// Unlock levanta el bloqueo por intentos fallidos y reinicia el contador.
func (uc *UserUseCase) Unlock(ctx context.Context, actorID, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Unlock()
	if err := uc.repo.UpdateLoginState(ctx, user); err != nil {
		return nil, err
	}
	record(ctx, uc.audit, actorID, entity.AuditUpdate, "Usuario", user.Username+" desbloqueado")
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List busca por username, nombre o email.
func (uc *UserUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	f := toFilter(&q, userOrder)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return dto.NewListResponse(items, q, total), nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) role(ctx context.Context, id string) (*entity.Role, error) {
	role, err := uc.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.FieldError("role_id", "El rol no existe.")
	}
	return role, nil
}

func (uc *UserUseCase) checkPolicy(pw string) error {
	failed := uc.policy.Check(pw)
	if len(failed) == 0 {
		return nil
	}
	v := domain.NewValidationError()
	for _, msg := range failed {
		v.Add("password", msg)
	}
	return v
}

func uniqueUserError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return domain.FieldError("email", "Ya existe un usuario con este email.")
	case errors.Is(err, domain.ErrDuplicate):
		return domain.FieldError("username", "Ya existe un usuario con este nombre de usuario.")
	}
	return err
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Name:                u.Name,
		Phone:               u.Phone,
		RoleID:              u.RoleID,
		Role:                u.RoleName,
		IsActive:            u.IsActive,
		MustChangePassword:  u.MustChangePassword,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		LastLogin:           u.LastLogin,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
