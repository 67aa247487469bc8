// migrate aplica o revierte las migraciones SQL embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down --steps 1
//	go run ./cmd/migrate version
//	go run ./cmd/migrate force --to 1
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/dulceria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dulceria-api/pkg/config"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 0, "migraciones a revertir con down (0 = todas)")
	to := flag.Int("to", -1, "versión a fijar con force")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate [up|down|version|force] [--steps N] [--to V]")
		flag.PrintDefaults()
	}
	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	mg, err := postgres.NewMigrator(cfg.DB.MigrationURL())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer mg.Close()

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down(*steps)
	case "force":
		if *to < 0 {
			log.Fatal().Msg("force requiere --to")
		}
		err = mg.Force(*to)
	case "version":
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}

	v, dirty, err := mg.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Str("cmd", cmd).Uint("version", v).Bool("dirty", dirty).Msg("migraciones")
}
