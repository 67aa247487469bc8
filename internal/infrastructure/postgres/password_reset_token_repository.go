package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.PasswordResetTokenRepository = (*PasswordResetTokenRepo)(nil)

// PasswordResetTokenRepo enlaces de recuperación de contraseña.
type PasswordResetTokenRepo struct {
	q Querier
}

// NewPasswordResetTokenRepository construye el adaptador.
func NewPasswordResetTokenRepository(q Querier) *PasswordResetTokenRepo {
	return &PasswordResetTokenRepo{q: q}
}

func (r *PasswordResetTokenRepo) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token, created_at, expires_at, used_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Token, t.CreatedAt, t.ExpiresAt, t.UsedAt)
	if err != nil {
		return fmt.Errorf("insert password reset token: %w", err)
	}
	return nil
}

// GetByToken un valor que no es UUID se trata como inexistente.
func (r *PasswordResetTokenRepo) GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, nil
	}
	var t entity.PasswordResetToken
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, token, created_at, expires_at, used_at
		FROM password_reset_tokens WHERE token = $1`, token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get password reset token: %w", err)
	}
	return &t, nil
}

func (r *PasswordResetTokenRepo) Claim(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE password_reset_tokens SET used_at = $2
		WHERE id = $1 AND used_at IS NULL AND expires_at > $2`, id, at)
	if err != nil {
		return false, fmt.Errorf("claim password reset token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PasswordResetTokenRepo) InvalidateForUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE password_reset_tokens SET used_at = $2 WHERE user_id = $1 AND used_at IS NULL`, userID, at)
	if err != nil {
		return fmt.Errorf("invalidate password reset tokens: %w", err)
	}
	return nil
}

// DeleteExpired dos borrados: primero los vencidos, luego los usados antiguos que queden.
func (r *PasswordResetTokenRepo) DeleteExpired(ctx context.Context, now, usedBefore time.Time) (int64, int64, error) {
	expired, err := r.q.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	used, err := r.q.Exec(ctx, `DELETE FROM password_reset_tokens WHERE used_at IS NOT NULL AND created_at < $1`, usedBefore)
	if err != nil {
		return expired.RowsAffected(), 0, fmt.Errorf("delete used tokens: %w", err)
	}
	return expired.RowsAffected(), used.RowsAffected(), nil
}
