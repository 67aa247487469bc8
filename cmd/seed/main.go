// seed crea los roles por defecto, un administrador con contraseña temporal y, opcionalmente,
// productos de ejemplo o un catálogo CSV con su stock inicial.
//
// Uso:
//
//	go run ./cmd/seed --admin-email admin@dulceria.cl
//	go run ./cmd/seed --products 20
//	go run ./cmd/seed --csv productos.csv
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dulceria-api/pkg/config"
	"github.com/jhoicas/dulceria-api/pkg/logger"
	"github.com/jhoicas/dulceria-api/pkg/password"
)

func main() {
	adminUser := flag.String("admin-user", "admin", "username del administrador inicial")
	adminEmail := flag.String("admin-email", "admin@dulceria.local", "email del administrador inicial")
	products := flag.Int("products", 0, "cantidad de productos de ejemplo a crear")
	csvPath := flag.String("csv", "", "catálogo CSV (nombre;descripción;precio;unidad[;cantidad;mínimo])")
	utf8 := flag.Bool("utf8", false, "el CSV viene en UTF-8 (por defecto Windows-1252)")
	location := flag.String("location", entity.DefaultLocation, "ubicación del stock inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	auditUC := usecase.NewAuditUseCase(postgres.NewAuditRepository(pool), log)
	roleUC := usecase.NewRoleUseCase(roleRepo, userRepo, auditUC)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, auditUC, log)
	productUC := usecase.NewProductUseCase(productRepo, auditUC)
	inventoryUC := usecase.NewInventoryUseCase(postgres.NewInventoryRepository(pool), productRepo,
		postgres.NewInventoryMovementRepository(pool), auditUC)

	// Roles
	for _, r := range entity.DefaultRoles {
		existing, err := roleRepo.GetByName(ctx, r.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("buscar rol")
		}
		if existing != nil {
			continue
		}
		if _, err := roleUC.Create(ctx, "", dto.RoleRequest{Name: r.Name, Description: r.Description}); err != nil {
			log.Fatal().Err(err).Str("role", r.Name).Msg("crear rol")
		}
		log.Info().Str("role", r.Name).Msg("rol creado")
	}

	// Administrador con contraseña temporal (cambio obligatorio en el primer acceso)
	existing, err := userRepo.GetByLogin(ctx, *adminUser)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar administrador")
	}
	if existing == nil {
		adminRole, err := roleRepo.GetByName(ctx, entity.RoleAdministrador)
		if err != nil || adminRole == nil {
			log.Fatal().Err(err).Msg("rol Administrador no disponible")
		}
		temp, err := password.Temporary(12)
		if err != nil {
			log.Fatal().Err(err).Msg("generar contraseña temporal")
		}
		mustChange := true
		if _, err := userUC.Create(ctx, "", dto.CreateUserRequest{
			Username:           *adminUser,
			Email:              *adminEmail,
			Name:               "Administrador",
			RoleID:             adminRole.ID,
			Password:           temp,
			MustChangePassword: &mustChange,
		}); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		// se muestra una sola vez; no queda en ningún otro lugar
		fmt.Printf("Administrador %q creado. Contraseña temporal: %s\n", *adminUser, temp)
	} else {
		log.Info().Str("username", existing.Username).Msg("el administrador ya existe")
	}

	var catalog []seedProduct
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		catalog, err = readCatalogCSV(f, !*utf8)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}
	catalog = append(catalog, sampleProducts(*products)...)

	created := 0
	for _, p := range catalog {
		prod, err := productUC.Create(ctx, "", p.ProductRequest)
		if err != nil {
			log.Warn().Err(err).Str("product", p.Name).Msg("producto omitido")
			continue
		}
		if _, err := inventoryUC.Create(ctx, "", dto.InventoryRequest{
			ProductID: prod.ID,
			Quantity:  p.Quantity,
			MinStock:  p.MinStock,
			Location:  *location,
		}); err != nil {
			log.Warn().Err(err).Str("product", p.Name).Msg("inventario omitido")
		}
		created++
	}
	log.Info().Int("products", created).Msg("seed completado")
}
