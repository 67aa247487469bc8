package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/dulceria-api/internal/domain"
)

// StockLevel nivel de stock derivado de cantidad y límites.
type StockLevel string

const (
	StockLow    StockLevel = "bajo"
	StockMedium StockLevel = "medio"
	StockHigh   StockLevel = "alto"
)

// DefaultLocation ubicación usada cuando no se indica una.
const DefaultLocation = "Bodega principal"

// Inventory existencias de un producto en una ubicación (único por producto + ubicación).
type Inventory struct {
	ID          string
	ProductID   string
	ProductName string // join
	Quantity    int
	MinStock    int
	MaxStock    *int
	Location    string
	UpdatedAt   time.Time
}

// Validate aplica los invariantes de stock antes de cada alta o modificación:
// cantidad >= 0, mínimo >= 0 y máximo (si existe) >= mínimo.
func (i *Inventory) Validate() error {
	i.Location = strings.TrimSpace(i.Location)
	v := domain.NewValidationError()
	if i.ProductID == "" {
		v.Add("product_id", "El producto es obligatorio.")
	}
	if i.Location == "" {
		v.Add("location", "La ubicación es obligatoria.")
	} else if len([]rune(i.Location)) > 150 {
		v.Add("location", "La ubicación no puede superar 150 caracteres.")
	}
	if i.Quantity < 0 {
		v.Add("quantity", "La cantidad actual no puede ser negativa.")
	}
	if i.MinStock < 0 {
		v.Add("min_stock", "El stock mínimo no puede ser negativo.")
	}
	if i.MaxStock != nil && *i.MaxStock < i.MinStock {
		v.Add("max_stock", "El stock máximo no puede ser menor que el stock mínimo.")
	}
	return v.Err()
}

// Level bajo si cantidad <= mínimo; alto si hay máximo y cantidad >= máximo; medio en otro caso.
func (i *Inventory) Level() StockLevel {
	switch {
	case i.Quantity <= i.MinStock:
		return StockLow
	case i.MaxStock != nil && i.Quantity >= *i.MaxStock:
		return StockHigh
	default:
		return StockMedium
	}
}

// StockLevelCounts conteo de inventarios por nivel (dashboard).
type StockLevelCounts struct {
	Low    int
	Medium int
	High   int
}
