package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/tu-usuario/erp-core/pkg/config"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "directorio de migraciones")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// golang-migrate registra el driver pgx/v5 bajo el esquema pgx5://
	dsn := strings.Replace(cfg.DB.ConnectionString(), "postgres://", "pgx5://", 1)
	dsn = strings.Replace(dsn, "postgresql://", "pgx5://", 1)

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("revertir migración")
		}
		log.Info().Msg("última migración revertida")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Info().Msg("sin migraciones aplicadas")
				return
			}
			log.Fatal().Err(err).Msg("consultar versión")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
	case "force":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Str("valor", args[1]).Msg("versión inválida")
		}
		if err := m.Force(version); err != nil {
			log.Fatal().Err(err).Msg("forzar versión")
		}
		log.Info().Int("version", version).Msg("versión forzada")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Herramienta de migraciones

Uso:
  migrate [-path dir] <comando>

Comandos:
  up               aplica todas las migraciones pendientes
  down             revierte la última migración
  version          muestra la versión actual
  force <version>  fija la versión sin ejecutar SQL (usar con cuidado)`)
}
