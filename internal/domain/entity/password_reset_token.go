package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultResetTokenTTL vigencia de un enlace de recuperación.
const DefaultResetTokenTTL = 5 * time.Minute

// PasswordResetToken enlace de recuperación de un solo uso.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// NewPasswordResetToken crea un token aleatorio (UUID) que vence en now+ttl.
func NewPasswordResetToken(userID string, now time.Time, ttl time.Duration) *PasswordResetToken {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsUsed true si ya se consumió.
func (t *PasswordResetToken) IsUsed() bool { return t.UsedAt != nil }

// IsValid no usado y no vencido.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.IsUsed() && now.Before(t.ExpiresAt)
}

// MarkUsed consume el token.
func (t *PasswordResetToken) MarkUsed(now time.Time) {
	t.UsedAt = &now
}
