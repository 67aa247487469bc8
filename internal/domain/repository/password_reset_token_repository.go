package repository

import (
	"context"
	"time"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// PasswordResetTokenRepository puerto de persistencia de enlaces de recuperación.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, t *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	// Claim marca el token como usado sólo si sigue sin usar y vigente en at.
	// false indica que otra petición ya lo consumió o que venció.
	Claim(ctx context.Context, id string, at time.Time) (bool, error)
	// InvalidateForUser marca como usados los tokens pendientes del usuario.
	InvalidateForUser(ctx context.Context, userID string, at time.Time) error
	// DeleteExpired borra los vencidos antes de now y los usados creados antes de usedBefore.
	DeleteExpired(ctx context.Context, now, usedBefore time.Time) (expired, used int64, err error)
}
