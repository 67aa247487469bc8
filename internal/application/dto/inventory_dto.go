package dto

import "time"

// InventoryRequest alta/edición de existencias. Los invariantes de stock se validan en la entidad.
type InventoryRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
	MinStock  int    `json:"min_stock"`
	MaxStock  *int   `json:"max_stock"`
	Location  string `json:"location" validate:"max=150"`
}

// InventoryResponse existencias con nivel de stock derivado.
type InventoryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	MaxStock    *int      `json:"max_stock"`
	Location    string    `json:"location"`
	Level       string    `json:"level"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/inventories/:id/movements.
type RegisterMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=entrada salida"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Supplier string `json:"supplier" validate:"max=150"`
	Reason   string `json:"reason" validate:"max=255"`
	Detail   string `json:"detail" validate:"max=1000"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID             string    `json:"id"`
	InventoryID    string    `json:"inventory_id"`
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	Supplier       string    `json:"supplier"`
	Reason         string    `json:"reason"`
	Detail         string    `json:"detail"`
	ResultingStock int       `json:"resulting_stock"`
	UserID         string    `json:"user_id,omitempty"`
	Username       string    `json:"username,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReplenishmentSuggestionDTO inventario en nivel bajo con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	Priority          int    `json:"priority"`
	InventoryID       string `json:"inventory_id"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	Location          string `json:"location"`
	CurrentStock      int    `json:"current_stock"`
	MinStock          int    `json:"min_stock"`
	MaxStock          *int   `json:"max_stock"`
	TargetStock       int    `json:"target_stock"`
	SuggestedOrderQty int    `json:"suggested_order_qty"`
	Deficit           int    `json:"deficit"`
}
