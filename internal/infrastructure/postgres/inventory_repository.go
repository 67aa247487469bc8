package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo existencias por producto y ubicación. Usable con pool o tx.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = ` i.id, i.product_id, p.name, i.quantity, i.min_stock, i.max_stock, i.location, i.updated_at`

const inventoryFrom = ` FROM inventories i JOIN products p ON p.id = i.product_id`

// Condiciones de nivel; deben coincidir con entity.Inventory.Level.
const (
	levelLowSQL  = `i.quantity <= i.min_stock`
	levelHighSQL = `i.quantity > i.min_stock AND i.max_stock IS NOT NULL AND i.quantity >= i.max_stock`
)

var inventoryOrderCols = map[string]string{
	"product":    "p.name",
	"quantity":   "i.quantity",
	"min_stock":  "i.min_stock",
	"max_stock":  "i.max_stock",
	"location":   "i.location",
	"updated_at": "i.updated_at",
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := row.Scan(&inv.ID, &inv.ProductID, &inv.ProductName, &inv.Quantity, &inv.MinStock,
		&inv.MaxStock, &inv.Location, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// inventoryWriteErr traduce la violación de (producto, ubicación) a ErrDuplicate.
func inventoryWriteErr(op string, err error) error {
	if violatedConstraint(err) == "inventories_product_location_key" {
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s inventory: %w", op, err)
}

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventories (id, product_id, quantity, min_stock, max_stock, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, inv.ID, inv.ProductID, inv.Quantity, inv.MinStock, inv.MaxStock, inv.Location, inv.UpdatedAt)
	if err != nil {
		return inventoryWriteErr("insert", err)
	}
	return nil
}

func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventories SET product_id = $2, quantity = $3, min_stock = $4, max_stock = $5, location = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.ProductID, inv.Quantity, inv.MinStock, inv.MaxStock, inv.Location, inv.UpdatedAt)
	if err != nil {
		return inventoryWriteErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) getOne(ctx context.Context, sql string, args ...any) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT`+inventoryColumns+inventoryFrom+` WHERE i.id = $1`, id)
}

// GetForUpdate bloquea sólo la fila de inventario hasta el COMMIT o ROLLBACK.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT`+inventoryColumns+inventoryFrom+` WHERE i.id = $1 FOR UPDATE OF i`, id)
}

func (r *InventoryRepo) GetByProductAndLocation(ctx context.Context, productID, location string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT`+inventoryColumns+inventoryFrom+` WHERE i.product_id = $1 AND i.location = $2`, productID, location)
}

// List busca por nombre de producto o ubicación.
func (r *InventoryRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Inventory, int, error) {
	l := buildList(f, "i.id", []string{"p.name", "i.location"}, inventoryOrderCols, "updated_at")
	where := l.whereClause()
	total, err := count(ctx, r.q, `SELECT COUNT(*)`+inventoryFrom+where, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count inventories: %w", err)
	}
	list, err := r.query(ctx, `SELECT`+inventoryColumns+inventoryFrom+where+l.order+l.page, l.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *InventoryRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InventoryRepo) CountByLevel(ctx context.Context) (entity.StockLevelCounts, error) {
	var c entity.StockLevelCounts
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE `+levelLowSQL+`),
			COUNT(*) FILTER (WHERE `+levelHighSQL+`),
			COUNT(*)
		FROM inventories i`).Scan(&c.Low, &c.High, &c.Medium)
	if err != nil {
		return c, fmt.Errorf("count inventories by level: %w", err)
	}
	c.Medium -= c.Low + c.High
	return c, nil
}

// ListLowStock nivel bajo ordenado por mayor déficit (min - cantidad).
func (r *InventoryRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Inventory, error) {
	sql := `SELECT` + inventoryColumns + inventoryFrom + ` WHERE ` + levelLowSQL +
		` ORDER BY (i.min_stock - i.quantity) DESC, p.name ASC, i.id ASC`
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.query(ctx, sql)
}

func (r *InventoryRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(i.quantity * p.reference_price), 0)`+inventoryFrom).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return v, nil
}
