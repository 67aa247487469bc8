package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo historial de movimientos. Sólo inserta y lista.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

var movementOrderCols = map[string]string{
	"created_at": "m.created_at",
	"type":       "m.type",
	"quantity":   "m.quantity",
}

func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, inventory_id, type, quantity, supplier, reason, detail, resulting_stock, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.InventoryID, m.Type, m.Quantity, m.Supplier, m.Reason, m.Detail, m.ResultingStock,
		nullable(m.UserID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// ListByInventory movimientos de un inventario; la búsqueda cubre proveedor, motivo y usuario.
func (r *InventoryMovementRepo) ListByInventory(ctx context.Context, inventoryID string, f repository.ListFilter) ([]*entity.InventoryMovement, int, error) {
	const from = ` FROM inventory_movements m LEFT JOIN users u ON u.id = m.user_id`
	l := buildList(f, "m.id", []string{"m.supplier", "m.reason", "u.username"}, movementOrderCols, "created_at", inventoryID)
	where := l.whereClause("m.inventory_id = $1")
	total, err := count(ctx, r.q, `SELECT COUNT(*)`+from+where, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count inventory movements: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.inventory_id, m.type, m.quantity, m.supplier, m.reason, m.detail, m.resulting_stock,
			m.user_id::text, u.username, m.created_at`+from+where+l.order+l.page, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var (
			m        entity.InventoryMovement
			userID   *string
			username *string
		)
		if err := rows.Scan(&m.ID, &m.InventoryID, &m.Type, &m.Quantity, &m.Supplier, &m.Reason, &m.Detail,
			&m.ResultingStock, &userID, &username, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan inventory movement: %w", err)
		}
		m.UserID, m.Username = deref(userID), deref(username)
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
