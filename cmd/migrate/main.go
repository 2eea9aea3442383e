package main

import (
	"errors"
	"fmt"
	"os"

	pg "medivault/internal/adapters/storage/postgres"
	"medivault/internal/platform/config"
	"medivault/internal/platform/logger"
	"medivault/internal/platform/migrations"

	"github.com/spf13/pflag"
)

var errNoDSN = errors.New("db dsn required (MEDIVAULT_DB_DSN)")

func main() {
	log := logger.New(logger.Options{Level: logger.Info, App: "medivault-migrate"})

	if err := run(os.Args[1:], log); err != nil {
		log.Error("migrate failed", map[string]any{"error": err})
		os.Exit(1)
	}
}

// run deja que los defer cierren la conexión antes de que main salga.
func run(args []string, log logger.Logger) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	configPath := fs.String("config", "", "ruta a un archivo de config")
	down := fs.Bool("down", false, "revierte la última migración")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	if cfg.DB.DSN == "" {
		return errNoDSN
	}

	db, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer db.Close()

	if *down {
		err = migrations.Down(db.DB)
	} else {
		err = migrations.Up(db.DB, log)
	}
	if err != nil {
		return fmt.Errorf("migration (down=%t): %w", *down, err)
	}
	log.Info("done", map[string]any{"down": *down})
	return nil
}
