// @title                       Dulcería Lilis API
// @version                     1.0
// @description                 Back-office de la dulcería: usuarios y roles, productos, inventario por ubicación, proveedores y auditoría.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/dulceria-api/docs"
	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/excel"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/mail"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/dulceria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/dulceria-api/internal/interfaces/http"
	"github.com/jhoicas/dulceria-api/pkg/config"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: sólo aceptable en desarrollo")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sesiones revocadas: Redis si está configurado, si no en memoria (una sola instancia)
	var sessions auth.SessionStore = session.NewMemoryStore()
	if cfg.Redis.URL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		sessions = rs
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	tokenRepo := postgres.NewPasswordResetTokenRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New()

	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, sessions, mail.New(cfg.Mail, log), auth.Config{
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		TokenTTL:  time.Duration(cfg.JWT.Expiration) * time.Minute,
		Lockout: entity.LockoutPolicy{
			MaxAttempts: cfg.Auth.MaxFailedAttempts,
			Duration:    cfg.Auth.LockoutDuration,
		},
		ResetTokenTTL:      cfg.Auth.ResetTokenTTL,
		ResetURL:           cfg.App.BaseURL + cfg.Auth.PasswordChangePath,
		PasswordChangePath: cfg.Auth.PasswordChangePath,
		HomePath:           cfg.Auth.HomePath,
	}, log).WithTx(txRunner)

	auditUC := usecase.NewAuditUseCase(auditRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, auditUC)
	inventoryUC := usecase.NewInventoryUseCase(inventoryRepo, productRepo, movementRepo, auditUC)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, auditUC)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, auditUC, log)
	roleUC := usecase.NewRoleUseCase(roleRepo, userRepo, auditUC)
	dashboardUC := usecase.NewDashboardUseCase(productRepo, inventoryRepo, supplierRepo, userRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, auditUC, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(inventoryRepo)
	exportUC := usecase.NewExportUseCase(productUC, inventoryUC, supplierUC, userUC, auditUC,
		excel.NewRenderer(), infrapdf.NewStockReportGenerator())

	// Tareas programadas
	jobs := scheduler.New(log)
	if err := jobs.AddTokenCleanup(cfg.Jobs.TokenCleanupSchedule,
		time.Duration(cfg.Jobs.TokenCleanupDays)*24*time.Hour, authUC, m); err != nil {
		log.Fatal().Err(err).Msg("programar limpieza de tokens")
	}
	jobs.Start()

	limiter := httpRouter.NewRateLimiter(cfg.HTTP.LoginRatePerMin, cfg.HTTP.LoginBurst, log)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(5*time.Minute, stopCleanup)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware(m))
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Dulcería Lilis API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	app.Static("/static", cfg.App.StaticDir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		ProductUC:          productUC,
		InventoryUC:        inventoryUC,
		RegisterMovement:   registerMovementUC,
		Replenishment:      replenishmentUC,
		SupplierUC:         supplierUC,
		UserUC:             userUC,
		RoleUC:             roleUC,
		AuditUC:            auditUC,
		DashboardUC:        dashboardUC,
		ExportUC:           exportUC,
		Metrics:            m,
		LoginLimiter:       limiter,
		Cookie:             httpRouter.SessionCookie{Name: cfg.JWT.CookieName, Secure: cfg.App.Env == "production"},
		PasswordChangePath: cfg.Auth.PasswordChangePath,
		Log:                log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	close(stopCleanup)
	jobs.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrateUp(cfg config.DBConfig) error {
	mg, err := postgres.NewMigrator(cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
