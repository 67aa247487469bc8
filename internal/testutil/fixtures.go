package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// Mailer guarda los correos en lugar de enviarlos.
type Mailer struct {
	mu   sync.Mutex
	Sent []auth.PasswordResetMail
	Fail bool
}

func (m *Mailer) SendPasswordReset(_ context.Context, msg auth.PasswordResetMail) error {
	if m.Fail {
		return errors.New("smtp no disponible")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last último correo enviado.
func (m *Mailer) Last() (auth.PasswordResetMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return auth.PasswordResetMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// SeedRoles crea los roles por defecto y devuelve sus IDs por nombre.
func (s *Store) SeedRoles() map[string]string {
	ids := map[string]string{}
	for _, r := range entity.DefaultRoles {
		role := r
		role.ID = uuid.NewString()
		role.CreatedAt = time.Now()
		_ = s.Roles.Create(context.Background(), &role)
		ids[role.Name] = role.ID
	}
	return ids
}

// SeedUser crea un usuario activo con la contraseña indicada (bcrypt de costo mínimo).
func (s *Store) SeedUser(username, email, pw, roleName string, mustChange bool) *entity.User {
	role, _ := s.Roles.GetByName(context.Background(), roleName)
	if role == nil {
		role = &entity.Role{ID: uuid.NewString(), Name: roleName, CreatedAt: time.Now()}
		_ = s.Roles.Create(context.Background(), role)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	now := time.Now()
	u := &entity.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              email,
		Name:               username,
		RoleID:             role.ID,
		RoleName:           role.Name,
		PasswordHash:       string(hash),
		IsActive:           true,
		MustChangePassword: mustChange,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	_ = s.Users.Create(context.Background(), u)
	return u
}
