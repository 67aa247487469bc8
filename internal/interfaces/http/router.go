package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/metrics"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	InventoryUC      *usecase.InventoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	SupplierUC       *usecase.SupplierUseCase
	UserUC           *usecase.UserUseCase
	RoleUC           *usecase.RoleUseCase
	AuditUC          *usecase.AuditUseCase
	DashboardUC      *usecase.DashboardUseCase
	ExportUC         *usecase.ExportUseCase

	Metrics            *metrics.Metrics
	LoginLimiter       *RateLimiter // nil desactiva el rate limit de los endpoints públicos
	Cookie             SessionCookie
	PasswordChangePath string
	Log                *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	api := app.Group("/api")

	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.LoginLimiter != nil {
		limited = deps.LoginLimiter.Handler()
	}
	authMW := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)

	// Auth: login y recuperación son públicos
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Metrics, deps.Cookie)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/forgot-password", limited, authHandler.ForgotPassword)
	authGroup.Get("/reset-password", limited, authHandler.ValidateResetToken)
	authGroup.Post("/reset-password", limited, authHandler.ResetPassword)
	authGroup.Post("/logout", authMW, authHandler.Logout)
	authGroup.Get("/me", authMW, authHandler.Me)
	authGroup.Post("/change-password", authMW, authHandler.ChangePassword)

	// Rutas protegidas: sesión válida y sin cambio de contraseña pendiente.
	// /api/auth, /static y /health quedan fuera del grupo, así que no necesitan excepciones.
	protected := api.Group("/", authMW, PasswordChangeGate(PasswordGateConfig{
		ChangePath: deps.PasswordChangePath,
		Log:        deps.Log.Named("gate"),
	}))
	admin := RequireRole(entity.RoleAdministrador)
	staff := RequireRole(entity.RoleAdministrador, entity.RoleBodeguero)

	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)

	// Products: lectura para todos; alta/edición Administrador y Bodeguero
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ExportUC, deps.Metrics)
	products.Get("/export", admin, productHandler.Export)
	products.Get("/", productHandler.List)
	products.Post("/", staff, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Inventories
	inventories := protected.Group("/inventories")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.RegisterMovement, deps.Replenishment, deps.ExportUC, deps.Metrics)
	inventories.Get("/replenishment", staff, inventoryHandler.GetReplenishmentList)
	inventories.Get("/export", staff, inventoryHandler.Export)
	inventories.Get("/export/pdf", staff, inventoryHandler.ExportPDF)
	inventories.Get("/", inventoryHandler.List)
	inventories.Post("/", admin, inventoryHandler.Create)
	inventories.Get("/:id", inventoryHandler.GetByID)
	inventories.Put("/:id", admin, inventoryHandler.Update)
	inventories.Get("/:id/movements", inventoryHandler.ListMovements)
	inventories.Post("/:id/movements", staff, inventoryHandler.RegisterMovement)

	// Suppliers (Administrador)
	suppliers := protected.Group("/suppliers", admin)
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.ExportUC, deps.Metrics)
	suppliers.Get("/export", supplierHandler.Export)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Users (Administrador)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC, deps.ExportUC, deps.Metrics)
	users.Get("/export", userHandler.Export)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Patch("/:id/status", userHandler.SetStatus)
	users.Post("/:id/reset-password", userHandler.ResetPassword)
	users.Post("/:id/unlock", userHandler.Unlock)

	// Roles (Administrador)
	roles := protected.Group("/roles", admin)
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Get("/", roleHandler.List)
	roles.Post("/", roleHandler.Create)
	roles.Put("/:id", roleHandler.Update)
	roles.Delete("/:id", roleHandler.Delete)

	// Audit (Administrador)
	audit := protected.Group("/audit", admin)
	auditHandler := NewAuditHandler(deps.AuditUC, deps.ExportUC, deps.Metrics)
	audit.Get("/export", auditHandler.Export)
	audit.Get("/", auditHandler.List)
}
