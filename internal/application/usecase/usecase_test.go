package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/testutil"
)

type env struct {
	store *testutil.Store
	audit *usecase.AuditUseCase
	admin *entity.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.NewStore()
	store.SeedRoles()
	return &env{
		store: store,
		audit: usecase.NewAuditUseCase(store.Audit, nil),
		admin: store.SeedUser("admin", "admin@dulceria.cl", "Admin#2024", entity.RoleAdministrador, false),
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func (e *env) product(t *testing.T, name string, price int64) *dto.ProductResponse {
	t.Helper()
	uc := usecase.NewProductUseCase(e.store.Products, e.audit)
	p, err := uc.Create(context.Background(), e.admin.ID, dto.ProductRequest{
		Name: name, ReferencePrice: decimal.NewFromInt(price), UnitMeasure: entity.UnitUnidad,
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CRUDAudita(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewProductUseCase(e.store.Products, e.audit)
	ctx := context.Background()

	p := e.product(t, "Chocolate amargo", 2500)
	_, err := uc.Update(ctx, e.admin.ID, p.ID, dto.ProductRequest{
		Name: "Chocolate 70%", ReferencePrice: decimal.NewFromInt(2700), UnitMeasure: entity.UnitCaja,
	})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, e.admin.ID, p.ID))

	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries := e.store.Audit.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, entity.AuditCreate, entries[0].Action)
	assert.Equal(t, entity.AuditUpdate, entries[1].Action)
	assert.Equal(t, entity.AuditDelete, entries[2].Action)
	assert.Equal(t, "admin", entries[2].Username)
}

func TestProductUseCase_PrecioInvalido(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewProductUseCase(e.store.Products, e.audit)

	_, err := uc.Create(context.Background(), e.admin.ID, dto.ProductRequest{
		Name: "Regalo", ReferencePrice: decimal.Zero, UnitMeasure: entity.UnitUnidad,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"El precio debe ser mayor a 0"}, verr.Fields["reference_price"])
	assert.Empty(t, e.store.Audit.Entries())
}

func TestProductUseCase_ListOrdenYPaginacion(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewProductUseCase(e.store.Products, e.audit)
	for _, n := range []string{"Caramelos", "Alfajor", "Bombones"} {
		e.product(t, n, 1000)
	}

	out, err := uc.List(context.Background(), dto.ListQuery{OrderBy: "no_existe", PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, "name", out.Page.OrderBy, "columna desconocida vuelve al orden por defecto")
	assert.Equal(t, 3, out.Page.Total)
	assert.Equal(t, 2, out.Page.TotalPages)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Alfajor", out.Items[0].Name)

	out, err = uc.List(context.Background(), dto.ListQuery{OrderBy: "name", OrderDirection: "desc", Search: "bom"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Bombones", out.Items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventarios
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryUseCase_InvariantesDeStock(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewInventoryUseCase(e.store.Inventories, e.store.Products, e.store.Movements, e.audit)
	p := e.product(t, "Gomitas", 1200)
	ctx := context.Background()

	_, err := uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 5, MinStock: 10, MaxStock: intPtr(3)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "max_stock")

	inv, err := uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 5, MinStock: 10})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultLocation, inv.Location)
	assert.Equal(t, "bajo", inv.Level)
}

func TestInventoryUseCase_UnicoPorProductoYUbicacion(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewInventoryUseCase(e.store.Inventories, e.store.Products, e.store.Movements, e.audit)
	p := e.product(t, "Gomitas", 1200)
	ctx := context.Background()

	_, err := uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 1, Location: "Local centro"})
	require.NoError(t, err)
	otro, err := uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 1, Location: "Bodega sur"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 2, Location: "Local centro"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "location")

	_, err = uc.Update(ctx, e.admin.ID, otro.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 1, Location: "Local centro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mover a una ubicación ocupada también se rechaza")
}

func TestInventoryUseCase_ProductoInexistente(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewInventoryUseCase(e.store.Inventories, e.store.Products, e.store.Movements, e.audit)

	_, err := uc.Create(context.Background(), e.admin.ID, dto.InventoryRequest{ProductID: "00000000-0000-0000-0000-000000000000"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "product_id")
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplierUseCase_RUT(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewSupplierUseCase(e.store.Suppliers, e.audit)
	ctx := context.Background()

	s, err := uc.Create(ctx, e.admin.ID, dto.SupplierRequest{Name: "Dulces del Sur", TaxID: "10000013-k", Email: "VENTAS@SUR.CL"})
	require.NoError(t, err)
	assert.Equal(t, "10000013-K", s.TaxID)
	assert.Equal(t, "ventas@sur.cl", s.Email)

	_, err = uc.Create(ctx, e.admin.ID, dto.SupplierRequest{Name: "Copia", TaxID: "10000013-K", Email: "x@y.cl"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tax_id")

	_, err = uc.Create(ctx, e.admin.ID, dto.SupplierRequest{Name: "Malo", TaxID: "12345678-9", Email: "x@y.cl"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y roles
// ──────────────────────────────────────────────────────────────────────────────

func newUserUseCase(e *env) *usecase.UserUseCase {
	return usecase.NewUserUseCase(e.store.Users, e.store.Roles, e.audit, nil)
}

func roleID(t *testing.T, e *env, name string) string {
	t.Helper()
	r, err := e.store.Roles.GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r.ID
}

func TestUserUseCase_CreateObligaCambio(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)

	u, err := uc.Create(context.Background(), e.admin.ID, dto.CreateUserRequest{
		Username: "bodega1", Email: "Bodega1@Dulceria.cl", Name: "Bodega", RoleID: roleID(t, e, entity.RoleBodeguero),
		Password: "Temporal#1",
	})
	require.NoError(t, err)
	assert.True(t, u.MustChangePassword)
	assert.True(t, u.IsActive)
	assert.Equal(t, "bodega1@dulceria.cl", u.Email)
	assert.Equal(t, entity.RoleBodeguero, u.Role)
}

func TestUserUseCase_CreateValidaciones(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	ctx := context.Background()
	rid := roleID(t, e, entity.RoleVendedor)

	_, err := uc.Create(ctx, e.admin.ID, dto.CreateUserRequest{Username: "v1", Email: "v1@d.cl", Name: "V", RoleID: rid, Password: "debil"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields["password"])

	_, err = uc.Create(ctx, e.admin.ID, dto.CreateUserRequest{Username: "otro", Email: "ADMIN@dulceria.cl", Name: "V", RoleID: rid, Password: "Fuerte#123"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = uc.Create(ctx, e.admin.ID, dto.CreateUserRequest{Username: "v2", Email: "v2@d.cl", Name: "V", RoleID: "no-existe", Password: "Fuerte#123"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role_id")
}

func TestUserUseCase_NoSobreSiMismo(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, e.admin.ID, e.admin.ID), domain.ErrSelfAction)
	_, err := uc.SetActive(ctx, e.admin.ID, e.admin.ID, false)
	assert.ErrorIs(t, err, domain.ErrSelfAction)
	_, err = uc.Update(ctx, e.admin.ID, e.admin.ID, dto.UpdateUserRequest{
		Username: "admin", Email: "admin@dulceria.cl", Name: "Admin", RoleID: e.admin.RoleID, IsActive: boolPtr(false),
	})
	assert.ErrorIs(t, err, domain.ErrSelfAction)
}

func TestUserUseCase_ResetPasswordTemporal(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	ctx := context.Background()
	u := e.store.SeedUser("vend", "vend@dulceria.cl", "Vende#2024", entity.RoleVendedor, false)
	locked := e.store.Users
	stored, _ := locked.GetByID(ctx, u.ID)
	stored.FailedLoginAttempts = 5
	require.NoError(t, locked.Update(ctx, stored))

	out, err := uc.ResetPassword(ctx, e.admin.ID, u.ID)
	require.NoError(t, err)
	assert.Len(t, out.TemporaryPassword, usecase.TemporaryPasswordLength)

	stored, _ = locked.GetByID(ctx, u.ID)
	assert.True(t, stored.MustChangePassword)
	assert.Zero(t, stored.FailedLoginAttempts)
}

func TestUserUseCase_UpdateSinPasswordConservaFlag(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	ctx := context.Background()
	u := e.store.SeedUser("vend", "vend@dulceria.cl", "Vende#2024", entity.RoleVendedor, false)

	out, err := uc.Update(ctx, e.admin.ID, u.ID, dto.UpdateUserRequest{
		Username: "vend", Email: "vend@dulceria.cl", Name: "Vendedora", RoleID: roleID(t, e, entity.RoleBodeguero),
	})
	require.NoError(t, err)
	assert.False(t, out.MustChangePassword)
	assert.Equal(t, entity.RoleBodeguero, out.Role)

	out, err = uc.Update(ctx, e.admin.ID, u.ID, dto.UpdateUserRequest{
		Username: "vend", Email: "vend@dulceria.cl", Name: "Vendedora", RoleID: roleID(t, e, entity.RoleBodeguero),
		Password: "Nueva#2025",
	})
	require.NoError(t, err)
	assert.True(t, out.MustChangePassword, "una contraseña asignada por el administrador es temporal")
}

func TestUserUseCase_UpdateNoLimpiaFlagSinCambioDeContrasena(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	ctx := context.Background()
	u := e.store.SeedUser("vend", "vend@dulceria.cl", "Vende#2024", entity.RoleVendedor, true)

	out, err := uc.Update(ctx, e.admin.ID, u.ID, dto.UpdateUserRequest{
		Username: "vend", Email: "vend@dulceria.cl", Name: "Vendedora", RoleID: roleID(t, e, entity.RoleVendedor),
		MustChangePassword: boolPtr(false),
	})
	require.NoError(t, err)
	assert.True(t, out.MustChangePassword)

	stored, err := e.store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.MustChangePassword)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestUserUseCase_UpdateActivaFlagSinContrasena(t *testing.T) {
	e := newEnv(t)
	uc := newUserUseCase(e)
	u := e.store.SeedUser("vend", "vend@dulceria.cl", "Vende#2024", entity.RoleVendedor, false)

	out, err := uc.Update(context.Background(), e.admin.ID, u.ID, dto.UpdateUserRequest{
		Username: "vend", Email: "vend@dulceria.cl", Name: "Vendedora", RoleID: roleID(t, e, entity.RoleVendedor),
		MustChangePassword: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, out.MustChangePassword)
}

func TestRoleUseCase_NoBorraConUsuarios(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewRoleUseCase(e.store.Roles, e.store.Users, e.audit)
	ctx := context.Background()

	err := uc.Delete(ctx, e.admin.ID, e.admin.RoleID)
	var inUse *domain.InUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, "No se puede eliminar. Hay 1 usuario(s) con este rol", inUse.Error())
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, uc.Delete(ctx, e.admin.ID, roleID(t, e, entity.RoleCliente)))

	roles, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
}

func TestRoleUseCase_NombreDuplicado(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewRoleUseCase(e.store.Roles, e.store.Users, e.audit)

	_, err := uc.Create(context.Background(), e.admin.ID, dto.RoleRequest{Name: entity.RoleVendedor})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardUseCase_SoloAdminVeUsuarios(t *testing.T) {
	e := newEnv(t)
	inv := usecase.NewInventoryUseCase(e.store.Inventories, e.store.Products, e.store.Movements, e.audit)
	ctx := context.Background()
	p := e.product(t, "Gomitas", 1000)
	_, err := inv.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 2, MinStock: 5})
	require.NoError(t, err)
	_, err = inv.Create(ctx, e.admin.ID, dto.InventoryRequest{ProductID: p.ID, Quantity: 30, MinStock: 5, MaxStock: intPtr(20), Location: "Local"})
	require.NoError(t, err)

	uc := usecase.NewDashboardUseCase(e.store.Products, e.store.Inventories, e.store.Suppliers, e.store.Users)

	out, err := uc.GetSummary(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Products)
	assert.Equal(t, 2, out.Inventories)
	assert.Equal(t, 1, out.StockLow)
	assert.Equal(t, 1, out.StockHigh)
	assert.True(t, out.StockValue.Equal(decimal.NewFromInt(32000)))
	assert.Len(t, out.LowStock, 1)
	assert.Nil(t, out.ActiveUsers)

	out, err = uc.GetSummary(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, out.ActiveUsers)
	assert.Equal(t, 1, *out.ActiveUsers)
	assert.Equal(t, 0, *out.Suppliers)
}

func TestAuditUseCase_ListRecientesPrimero(t *testing.T) {
	e := newEnv(t)
	e.product(t, "A", 100)
	e.product(t, "B", 100)

	out, err := e.audit.List(context.Background(), dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "desc", out.Page.OrderDirection)
	assert.Equal(t, "created_at", out.Page.OrderBy)
}
