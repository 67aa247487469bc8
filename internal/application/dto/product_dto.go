package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest alta/edición de producto. ReferencePrice debe ser > 0 (se valida en la entidad).
type ProductRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Description    string          `json:"description" validate:"max=500"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
	UnitMeasure    string          `json:"unit_measure" validate:"required,oneof=kg unidad caja paquete litro"`
}

// ProductResponse salida de producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
	UnitMeasure    string          `json:"unit_measure"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
