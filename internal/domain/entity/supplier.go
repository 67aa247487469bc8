package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/pkg/rut"
)

// Supplier proveedor identificado por RUT.
type Supplier struct {
	ID             string
	Name           string
	Contact        string
	Address        string
	TaxID          string
	Email          string
	SecondaryEmail string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Normalize recorta espacios y normaliza el RUT y los correos.
func (s *Supplier) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Contact = strings.TrimSpace(s.Contact)
	s.Address = strings.TrimSpace(s.Address)
	s.TaxID = rut.Normalize(s.TaxID)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.SecondaryEmail = strings.ToLower(strings.TrimSpace(s.SecondaryEmail))
}

// Validate nombre y correo obligatorios y RUT chileno válido.
func (s *Supplier) Validate() error {
	s.Normalize()
	v := domain.NewValidationError()
	if s.Name == "" {
		v.Add("name", "El nombre del proveedor es obligatorio.")
	} else if len([]rune(s.Name)) > 150 {
		v.Add("name", "El nombre no puede superar 150 caracteres.")
	}
	if err := rut.Validate(s.TaxID); err != nil {
		v.Add("tax_id", err.Error())
	}
	if s.Email == "" {
		v.Add("email", "El email es obligatorio.")
	}
	if s.SecondaryEmail != "" && s.SecondaryEmail == s.Email {
		v.Add("secondary_email", "El email secundario debe ser distinto del principal.")
	}
	return v.Err()
}
