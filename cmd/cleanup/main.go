// cleanup elimina una vez los tokens de recuperación vencidos y los usados hace más de N días.
// La API ejecuta la misma limpieza a diario con cron; este comando sirve para cron del sistema.
//
// Uso: go run ./cmd/cleanup --days 7
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dulceria-api/pkg/config"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	days := flag.Int("days", cfg.Jobs.TokenCleanupDays, "antigüedad mínima de los tokens usados a eliminar")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("cleanup")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), postgres.NewPasswordResetTokenRepository(pool),
		nil, nil, auth.Config{JWTSecret: cfg.JWT.Secret}, log)
	expired, used, err := uc.CleanupTokens(ctx, time.Duration(*days)*24*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("limpieza de tokens")
	}
	log.Info().Int64("expired", expired).Int64("used", used).Int("days", *days).Msg("limpieza completada")
}
