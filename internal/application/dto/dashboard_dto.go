package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// Los contadores de proveedores y usuarios sólo se incluyen para administradores.
type DashboardSummaryDTO struct {
	Products    int `json:"products"`
	Inventories int `json:"inventories"`

	// Inventarios por nivel de stock
	StockLow    int `json:"stock_low"`
	StockMedium int `json:"stock_medium"`
	StockHigh   int `json:"stock_high"`

	// Valor referencial del stock: sum(cantidad * precio de referencia)
	StockValue decimal.Decimal `json:"stock_value"`

	// Inventarios con menor cantidad respecto de su mínimo (nivel bajo)
	LowStock []InventoryResponse `json:"low_stock"`

	Suppliers     *int `json:"suppliers,omitempty"`
	ActiveUsers   *int `json:"active_users,omitempty"`
	InactiveUsers *int `json:"inactive_users,omitempty"`
}
