// Package testutil implementaciones en memoria de los puertos de persistencia para tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var (
	_ repository.UserRepository               = (*UserRepo)(nil)
	_ repository.RoleRepository               = (*RoleRepo)(nil)
	_ repository.ProductRepository            = (*ProductRepo)(nil)
	_ repository.InventoryRepository          = (*InventoryRepo)(nil)
	_ repository.InventoryMovementRepository  = (*MovementRepo)(nil)
	_ repository.SupplierRepository           = (*SupplierRepo)(nil)
	_ repository.PasswordResetTokenRepository = (*TokenRepo)(nil)
	_ repository.AuditRepository              = (*AuditRepo)(nil)
)

// Store agrupa todos los repos en memoria con las relaciones resueltas entre sí.
type Store struct {
	Roles       *RoleRepo
	Users       *UserRepo
	Products    *ProductRepo
	Inventories *InventoryRepo
	Movements   *MovementRepo
	Suppliers   *SupplierRepo
	Tokens      *TokenRepo
	Audit       *AuditRepo
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	roles := &RoleRepo{items: map[string]*entity.Role{}}
	users := &UserRepo{items: map[string]*entity.User{}, roles: roles}
	roles.users = users
	products := &ProductRepo{items: map[string]*entity.Product{}}
	return &Store{
		Roles:       roles,
		Users:       users,
		Products:    products,
		Inventories: &InventoryRepo{items: map[string]*entity.Inventory{}, products: products},
		Movements:   &MovementRepo{users: users},
		Suppliers:   &SupplierRepo{items: map[string]*entity.Supplier{}},
		Tokens:      &TokenRepo{items: map[string]*entity.PasswordResetToken{}},
		Audit:       &AuditRepo{users: users},
	}
}

// Run implementa el TxRunner de movimientos sin transacción real.
func (s *Store) Run(ctx context.Context, fn func(repository.InventoryRepository, repository.InventoryMovementRepository) error) error {
	return fn(s.Inventories, s.Movements)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func contains(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// page ordena con less[f.OrderBy] (o def) y aplica Limit/Offset.
func page[T any](items []T, f repository.ListFilter, less map[string]func(a, b T) bool, def string) ([]T, int) {
	cmp, ok := less[f.OrderBy]
	if !ok {
		cmp = less[def]
	}
	if cmp != nil {
		sort.SliceStable(items, func(i, j int) bool {
			if f.Desc {
				return cmp(items[j], items[i])
			}
			return cmp(items[i], items[j])
		})
	}
	total := len(items)
	if f.Offset > 0 {
		if f.Offset >= len(items) {
			return []T{}, total
		}
		items = items[f.Offset:]
	}
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, total
}

// ── Roles ────────────────────────────────────────────────────────────────────

type RoleRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Role
	users *UserRepo
}

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.Name == role.Name {
			return domain.ErrDuplicate
		}
	}
	c := *role
	r.items[role.ID] = &c
	return nil
}

func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[role.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.items {
		if x.Name == role.Name && x.ID != role.ID {
			return domain.ErrDuplicate
		}
	}
	c := *role
	r.items[role.ID] = &c
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.Name == name {
			c := *x
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	r.mu.Lock()
	out := make([]*entity.Role, 0, len(r.items))
	for _, x := range r.items {
		c := *x
		out = append(out, &c)
	}
	r.mu.Unlock()
	for _, role := range out {
		role.UserCount, _ = r.users.CountByRole(ctx, role.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) name(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		return x.Name
	}
	return ""
}

// ── Users ────────────────────────────────────────────────────────────────────

type UserRepo struct {
	mu    sync.Mutex
	items map[string]*entity.User
	roles *RoleRepo
}

func (r *UserRepo) checkUnique(u *entity.User) error {
	for _, x := range r.items {
		if x.ID == u.ID {
			continue
		}
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
		if strings.EqualFold(x.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	name := r.roles.name(u.RoleID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(u); err != nil {
		return err
	}
	c := *u
	if name != "" {
		c.RoleName = name
	}
	r.items[u.ID] = &c
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	name := r.roles.name(u.RoleID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[u.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	c := *u
	if name != "" {
		c.RoleName = name
	}
	r.items[u.ID] = &c
	return nil
}

func (r *UserRepo) UpdateLoginState(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.items[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	x.FailedLoginAttempts = u.FailedLoginAttempts
	x.LockedUntil = u.LockedUntil
	x.LastLogin = u.LastLogin
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *UserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if match(x) {
			c := *x
			return &c
		}
	}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) GetByLogin(_ context.Context, login string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login)
	}), nil
}

func (r *UserRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	r.mu.Lock()
	var items []*entity.User
	for _, x := range r.items {
		if contains(f.Search, x.Username, x.Email, x.Name) {
			c := *x
			items = append(items, &c)
		}
	}
	r.mu.Unlock()
	out, total := page(items, f, map[string]func(a, b *entity.User) bool{
		"username":   func(a, b *entity.User) bool { return a.Username < b.Username },
		"name":       func(a, b *entity.User) bool { return a.Name < b.Name },
		"email":      func(a, b *entity.User) bool { return a.Email < b.Email },
		"created_at": func(a, b *entity.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, "username")
	return out, total, nil
}

func (r *UserRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.items {
		if x.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) CountByStatus(_ context.Context) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active, inactive int
	for _, x := range r.items {
		if x.IsActive {
			active++
		} else {
			inactive++
		}
	}
	return active, inactive, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	r.items[p.ID] = &c
	return nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.items[p.ID] = &c
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	r.mu.Lock()
	var items []*entity.Product
	for _, x := range r.items {
		if contains(f.Search, x.Name, x.Description, x.ReferencePrice.String()) {
			c := *x
			items = append(items, &c)
		}
	}
	r.mu.Unlock()
	out, total := page(items, f, map[string]func(a, b *entity.Product) bool{
		"name":            func(a, b *entity.Product) bool { return a.Name < b.Name },
		"reference_price": func(a, b *entity.Product) bool { return a.ReferencePrice.LessThan(b.ReferencePrice) },
		"unit_measure":    func(a, b *entity.Product) bool { return a.UnitMeasure < b.UnitMeasure },
		"created_at":      func(a, b *entity.Product) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, "name")
	return out, total, nil
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

func (r *ProductRepo) name(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		return x.Name
	}
	return ""
}

func (r *ProductRepo) price(id string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		return x.ReferencePrice
	}
	return decimal.Zero
}

// ── Inventories ──────────────────────────────────────────────────────────────

type InventoryRepo struct {
	mu       sync.Mutex
	items    map[string]*entity.Inventory
	products *ProductRepo
}

func (r *InventoryRepo) store(inv *entity.Inventory, create bool) error {
	name := r.products.name(inv.ProductID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[inv.ID]; !ok && !create {
		return domain.ErrNotFound
	}
	for _, x := range r.items {
		if x.ID != inv.ID && x.ProductID == inv.ProductID && x.Location == inv.Location {
			return domain.ErrDuplicate
		}
	}
	c := *inv
	c.ProductName = name
	r.items[inv.ID] = &c
	return nil
}

func (r *InventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	return r.store(inv, true)
}

func (r *InventoryRepo) Update(_ context.Context, inv *entity.Inventory) error {
	return r.store(inv, false)
}

func (r *InventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryRepo) GetByProductAndLocation(_ context.Context, productID, location string) (*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.ProductID == productID && x.Location == location {
			c := *x
			return &c, nil
		}
	}
	return nil, nil
}

func (r *InventoryRepo) all() []*entity.Inventory {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Inventory, 0, len(r.items))
	for _, x := range r.items {
		c := *x
		out = append(out, &c)
	}
	return out
}

func (r *InventoryRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Inventory, int, error) {
	var items []*entity.Inventory
	for _, x := range r.all() {
		if contains(f.Search, x.ProductName, x.Location) {
			items = append(items, x)
		}
	}
	out, total := page(items, f, map[string]func(a, b *entity.Inventory) bool{
		"product":    func(a, b *entity.Inventory) bool { return a.ProductName < b.ProductName },
		"quantity":   func(a, b *entity.Inventory) bool { return a.Quantity < b.Quantity },
		"location":   func(a, b *entity.Inventory) bool { return a.Location < b.Location },
		"updated_at": func(a, b *entity.Inventory) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
	}, "updated_at")
	return out, total, nil
}

func (r *InventoryRepo) CountByLevel(_ context.Context) (entity.StockLevelCounts, error) {
	var c entity.StockLevelCounts
	for _, x := range r.all() {
		switch x.Level() {
		case entity.StockLow:
			c.Low++
		case entity.StockHigh:
			c.High++
		default:
			c.Medium++
		}
	}
	return c, nil
}

func (r *InventoryRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	for _, x := range r.all() {
		if x.Level() == entity.StockLow {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Quantity-out[i].MinStock < out[j].Quantity-out[j].MinStock
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InventoryRepo) StockValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, x := range r.all() {
		total = total.Add(r.products.price(x.ProductID).Mul(decimal.NewFromInt(int64(x.Quantity))))
	}
	return total, nil
}

// ── Movements ────────────────────────────────────────────────────────────────

type MovementRepo struct {
	mu    sync.Mutex
	items []*entity.InventoryMovement
	users *UserRepo
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	c := *m
	if u, _ := r.users.GetByID(ctx, m.UserID); u != nil {
		c.Username = u.Username
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, &c)
	return nil
}

func (r *MovementRepo) ListByInventory(_ context.Context, inventoryID string, f repository.ListFilter) ([]*entity.InventoryMovement, int, error) {
	r.mu.Lock()
	var items []*entity.InventoryMovement
	for _, x := range r.items {
		if x.InventoryID == inventoryID && contains(f.Search, x.Type, x.Supplier, x.Reason, x.Detail) {
			c := *x
			items = append(items, &c)
		}
	}
	r.mu.Unlock()
	out, total := page(items, f, map[string]func(a, b *entity.InventoryMovement) bool{
		"created_at": func(a, b *entity.InventoryMovement) bool { return a.CreatedAt.Before(b.CreatedAt) },
		"quantity":   func(a, b *entity.InventoryMovement) bool { return a.Quantity < b.Quantity },
	}, "created_at")
	return out, total, nil
}

// All devuelve todos los movimientos registrados.
func (r *MovementRepo) All() []*entity.InventoryMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.InventoryMovement(nil), r.items...)
}

// ── Suppliers ────────────────────────────────────────────────────────────────

type SupplierRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Supplier
}

func (r *SupplierRepo) store(s *entity.Supplier, create bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok && !create {
		return domain.ErrNotFound
	}
	for _, x := range r.items {
		if x.ID != s.ID && x.TaxID == s.TaxID {
			return domain.ErrDuplicate
		}
	}
	c := *s
	r.items[s.ID] = &c
	return nil
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error { return r.store(s, true) }
func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error { return r.store(s, false) }

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.items[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

func (r *SupplierRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Supplier, int, error) {
	r.mu.Lock()
	var items []*entity.Supplier
	for _, x := range r.items {
		if contains(f.Search, x.Name, x.TaxID, x.Email) {
			c := *x
			items = append(items, &c)
		}
	}
	r.mu.Unlock()
	out, total := page(items, f, map[string]func(a, b *entity.Supplier) bool{
		"name":       func(a, b *entity.Supplier) bool { return a.Name < b.Name },
		"tax_id":     func(a, b *entity.Supplier) bool { return a.TaxID < b.TaxID },
		"created_at": func(a, b *entity.Supplier) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, "name")
	return out, total, nil
}

func (r *SupplierRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

// ── Password reset tokens ────────────────────────────────────────────────────

type TokenRepo struct {
	mu    sync.Mutex
	items map[string]*entity.PasswordResetToken
}

func (r *TokenRepo) Create(_ context.Context, t *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	r.items[t.ID] = &c
	return nil
}

func (r *TokenRepo) GetByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.Token == token {
			c := *x
			return &c, nil
		}
	}
	return nil, nil
}

func (r *TokenRepo) Claim(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.items[id]
	if !ok || !x.IsValid(at) {
		return false, nil
	}
	x.MarkUsed(at)
	return true, nil
}

func (r *TokenRepo) InvalidateForUser(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.UserID == userID && !x.IsUsed() {
			x.MarkUsed(at)
		}
	}
	return nil
}

func (r *TokenRepo) DeleteExpired(_ context.Context, now, usedBefore time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired, used int64
	for id, x := range r.items {
		switch {
		case x.ExpiresAt.Before(now):
			expired++
			delete(r.items, id)
		case x.IsUsed() && x.CreatedAt.Before(usedBefore):
			used++
			delete(r.items, id)
		}
	}
	return expired, used, nil
}

// All devuelve los tokens guardados.
func (r *TokenRepo) All() []*entity.PasswordResetToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.PasswordResetToken, 0, len(r.items))
	for _, x := range r.items {
		c := *x
		out = append(out, &c)
	}
	return out
}

// ── Audit ────────────────────────────────────────────────────────────────────

type AuditRepo struct {
	mu    sync.Mutex
	items []*entity.AuditEntry
	users *UserRepo
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	c := *e
	if u, _ := r.users.GetByID(ctx, e.UserID); u != nil {
		c.Username = u.Username
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, &c)
	return nil
}

func (r *AuditRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AuditEntry, int, error) {
	r.mu.Lock()
	var items []*entity.AuditEntry
	for _, x := range r.items {
		if contains(f.Search, x.Entity, x.Detail, x.Action, x.Username) {
			c := *x
			items = append(items, &c)
		}
	}
	r.mu.Unlock()
	out, total := page(items, f, map[string]func(a, b *entity.AuditEntry) bool{
		"created_at": func(a, b *entity.AuditEntry) bool { return a.CreatedAt.Before(b.CreatedAt) },
		"action":     func(a, b *entity.AuditEntry) bool { return a.Action < b.Action },
		"entity":     func(a, b *entity.AuditEntry) bool { return a.Entity < b.Entity },
	}, "created_at")
	return out, total, nil
}

// Entries devuelve los registros de auditoría en orden de inserción.
func (r *AuditRepo) Entries() []*entity.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.AuditEntry(nil), r.items...)
}
