package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/domain"
)

// Unidades de medida admitidas.
const (
	UnitKg      = "kg"
	UnitUnidad  = "unidad"
	UnitCaja    = "caja"
	UnitPaquete = "paquete"
	UnitLitro   = "litro"
)

// UnitMeasures en el orden en que se ofrecen al usuario.
var UnitMeasures = []string{UnitKg, UnitUnidad, UnitCaja, UnitPaquete, UnitLitro}

// IsValidUnitMeasure true si u es una unidad admitida.
func IsValidUnitMeasure(u string) bool {
	for _, m := range UnitMeasures {
		if m == u {
			return true
		}
	}
	return false
}

// Product producto del catálogo de la dulcería.
type Product struct {
	ID             string
	Name           string
	Description    string
	ReferencePrice decimal.Decimal
	UnitMeasure    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate nombre obligatorio, precio > 0 y unidad admitida.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	v := domain.NewValidationError()
	if p.Name == "" {
		v.Add("name", "El nombre del producto es obligatorio.")
	} else if len([]rune(p.Name)) > 100 {
		v.Add("name", "El nombre no puede superar 100 caracteres.")
	}
	if !p.ReferencePrice.GreaterThan(decimal.Zero) {
		v.Add("reference_price", "El precio debe ser mayor a 0")
	}
	if !IsValidUnitMeasure(p.UnitMeasure) {
		v.Add("unit_measure", "Unidad de medida inválida. Opciones: kg, unidad, caja, paquete, litro.")
	}
	return v.Err()
}
