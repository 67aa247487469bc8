package auth

import (
	"context"
	"time"

	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// Mailer envía el correo con el enlace de recuperación.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetMail) error
}

// PasswordResetMail datos del correo de recuperación.
type PasswordResetMail struct {
	To        string
	Name      string
	Link      string
	ExpiresIn time.Duration
}

// SessionStore registra sesiones revocadas (logout) hasta que el token expira.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TxRunner ejecuta fn en una transacción con repositorios de usuarios y tokens atados a ella.
type TxRunner interface {
	RunAuth(ctx context.Context, fn func(
		users repository.UserRepository,
		tokens repository.PasswordResetTokenRepository,
	) error) error
}
