package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/excel"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/metrics"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/session"
	apphttp "github.com/jhoicas/dulceria-api/internal/interfaces/http"
	"github.com/jhoicas/dulceria-api/internal/testutil"
	"github.com/jhoicas/dulceria-api/pkg/jwt"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testIssuer     = "dulceria-test"
	testCookie     = "dulceria_session"
	testPassword   = "Dulce#2024"
	testChangePath = "/reset-password"
)

// testServer API completa sobre repositorios en memoria.
type testServer struct {
	app     *fiber.App
	store   *testutil.Store
	authUC  *auth.AuthUseCase
	mailer  *testutil.Mailer
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, limiter *apphttp.RateLimiter) *testServer {
	t.Helper()
	s := &testServer{store: testutil.NewStore(), mailer: &testutil.Mailer{}, metrics: metrics.New()}
	s.store.SeedRoles()
	log := logger.Nop()

	s.authUC = auth.NewAuthUseCase(s.store.Users, s.store.Tokens, session.NewMemoryStore(), s.mailer, auth.Config{
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testIssuer,
		TokenTTL:           time.Hour,
		Lockout:            entity.DefaultLockoutPolicy(),
		ResetTokenTTL:      5 * time.Minute,
		ResetURL:           "http://localhost:3000/reset-password",
		PasswordChangePath: testChangePath,
		HomePath:           "/dashboard",
	}, log)
	auditUC := usecase.NewAuditUseCase(s.store.Audit, log)
	productUC := usecase.NewProductUseCase(s.store.Products, auditUC)
	inventoryUC := usecase.NewInventoryUseCase(s.store.Inventories, s.store.Products, s.store.Movements, auditUC)
	supplierUC := usecase.NewSupplierUseCase(s.store.Suppliers, auditUC)
	userUC := usecase.NewUserUseCase(s.store.Users, s.store.Roles, auditUC, log)
	exportUC := usecase.NewExportUseCase(productUC, inventoryUC, supplierUC, userUC, auditUC,
		excel.NewRenderer(), pdf.NewStockReportGenerator())

	s.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(s.app, apphttp.RouterDeps{
		AuthUC:             s.authUC,
		ProductUC:          productUC,
		InventoryUC:        inventoryUC,
		RegisterMovement:   inventory.NewRegisterMovementUseCase(s.store, auditUC, log),
		Replenishment:      inventory.NewReplenishmentUseCase(s.store.Inventories),
		SupplierUC:         supplierUC,
		UserUC:             userUC,
		RoleUC:             usecase.NewRoleUseCase(s.store.Roles, s.store.Users, auditUC),
		AuditUC:            auditUC,
		DashboardUC:        usecase.NewDashboardUseCase(s.store.Products, s.store.Inventories, s.store.Suppliers, s.store.Users),
		ExportUC:           exportUC,
		Metrics:            s.metrics,
		LoginLimiter:       limiter,
		Cookie:             apphttp.SessionCookie{Name: testCookie},
		PasswordChangePath: testChangePath,
		Log:                log,
	})
	return s
}

// tokenFor crea un usuario con el rol indicado y devuelve "Bearer <jwt>".
func (s *testServer) tokenFor(t *testing.T, username, role string, mustChange bool) (*entity.User, string) {
	t.Helper()
	u := s.store.SeedUser(username, username+"@dulceria.cl", testPassword, role, mustChange)
	tok, err := jwt.Generate(testJWTSecret, u.ID, u.RoleName, testIssuer, time.Hour)
	require.NoError(t, err)
	return u, "Bearer " + tok.Value
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedProduct(t *testing.T, s *testServer, name string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: name + "-id", Name: name, ReferencePrice: decimal.NewFromInt(500), UnitMeasure: "unidad",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.store.Products.Create(context.Background(), p))
	return p
}

func seedInventory(t *testing.T, s *testServer, productID string, qty, min int) *entity.Inventory {
	t.Helper()
	inv := &entity.Inventory{
		ID: productID + "-inv", ProductID: productID, Quantity: qty, MinStock: min,
		Location: "Bodega Central", UpdatedAt: time.Now(),
	}
	require.NoError(t, s.store.Inventories.Create(context.Background(), inv))
	return inv
}
