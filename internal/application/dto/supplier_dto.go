package dto

import "time"

// SupplierRequest alta/edición de proveedor. El RUT se valida en la entidad.
type SupplierRequest struct {
	Name           string `json:"name" validate:"required,max=150"`
	Contact        string `json:"contact" validate:"max=100"`
	Address        string `json:"address" validate:"max=255"`
	TaxID          string `json:"tax_id" validate:"required,max=12"`
	Email          string `json:"email" validate:"required,email,max=254"`
	SecondaryEmail string `json:"secondary_email" validate:"omitempty,email,max=254"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Contact        string    `json:"contact"`
	Address        string    `json:"address"`
	TaxID          string    `json:"tax_id"`
	Email          string    `json:"email"`
	SecondaryEmail string    `json:"secondary_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
