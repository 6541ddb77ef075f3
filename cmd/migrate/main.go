// migrate aplica o revierte el esquema embebido en internal/infrastructure/postgres/migrations.
//
// Uso: go run ./cmd/migrate [up|down|version] [pasos]
// Sin argumentos aplica todas las migraciones pendientes. La conexión sale de DATABASE_URL o DB_*.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/retail-pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-pos-api/pkg/config"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "migrate"})

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	steps := 0
	if len(os.Args) > 2 {
		steps, err = strconv.Atoi(os.Args[2])
		if err != nil || steps < 0 {
			log.Fatal().Str("pasos", os.Args[2]).Msg("pasos debe ser un entero no negativo")
		}
	}
	if direction == "down" && steps == 0 && os.Getenv("MIGRATE_DOWN_ALL") != "true" {
		log.Fatal().Msg("down sin pasos revierte todo el esquema; defina MIGRATE_DOWN_ALL=true para confirmar")
	}

	url := postgres.MigrationURL(cfg.DB)
	switch direction {
	case "up", "down":
		if err := postgres.Migrate(url, direction, steps); err != nil {
			log.Fatal().Err(err).Msg("migración")
		}
	case "version":
	default:
		log.Fatal().Str("comando", direction).Msg("comando inválido: use up, down o version")
	}

	v, dirty, err := postgres.MigrationVersion(url)
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión del esquema")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Str("comando", direction).Msg("esquema")
}
