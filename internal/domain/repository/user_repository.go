package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	// UpdateLoginState persiste sólo intentos fallidos, bloqueo y último acceso.
	UpdateLoginState(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByLogin busca por username o email (sin distinguir mayúsculas).
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	List(ctx context.Context, f ListFilter) ([]*entity.User, int, error)
	CountByRole(ctx context.Context, roleID string) (int, error)
	CountByStatus(ctx context.Context) (active, inactive int, err error)
}
