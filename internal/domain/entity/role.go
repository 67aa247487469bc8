package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/dulceria-api/internal/domain"
)

// Role rol de usuario. La autorización se decide por Name.
type Role struct {
	ID          string
	Name        string
	Description string
	UserCount   int // sólo en listados
	CreatedAt   time.Time
}

// Validate nombre obligatorio (máx. 50) y descripción acotada.
func (r *Role) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	v := domain.NewValidationError()
	if r.Name == "" {
		v.Add("name", "El nombre del rol es obligatorio.")
	} else if len([]rune(r.Name)) > 50 {
		v.Add("name", "El nombre del rol no puede superar 50 caracteres.")
	}
	if len([]rune(r.Description)) > 255 {
		v.Add("description", "La descripción no puede superar 255 caracteres.")
	}
	return v.Err()
}
