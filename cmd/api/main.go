// @title MediVault API
// @version 1.0
// @description Consentimiento, acceso de emergencia y auditoría de historias clínicas.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jwtauth "medivault/internal/adapters/auth/jwt"
	"medivault/internal/adapters/email/smtp"
	"medivault/internal/adapters/identity/directory"
	"medivault/internal/adapters/notify/webhook"
	pg "medivault/internal/adapters/storage/postgres"
	"medivault/internal/platform/config"
	"medivault/internal/platform/logger"
	"medivault/internal/platform/migrations"
	"medivault/internal/router"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "ruta a un archivo de config (yaml/json/toml)")
	migrate := pflag.Bool("migrate", true, "aplica migraciones al arrancar si hay DB")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.Options{Level: logger.Error}).Error("config load failed", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App,
	})

	opts := router.Options{Logger: log}

	if cfg.Auth.JWTSecret != "" {
		opts.AuthVerifier = jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.App)
	} else {
		log.Warn("no jwt secret configured, running in dev mode (X-Debug-* headers)", nil)
	}

	if cfg.DB.DSN != "" {
		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()

		if *migrate {
			if err := migrations.Up(db.DB, log); err != nil {
				log.Error("migrations failed", map[string]any{"error": err})
				os.Exit(1)
			}
		}
		opts.DB = db
	} else {
		log.Warn("no database configured, using in-memory storage", nil)
	}

	if cfg.Directory.BaseURL != "" {
		dir, err := directory.NewClient(directory.Config{
			BaseURL: cfg.Directory.BaseURL,
			APIKey:  cfg.Directory.APIKey,
			Timeout: cfg.Directory.Timeout,
		})
		if err != nil {
			log.Error("identity directory config invalid", map[string]any{"error": err})
			os.Exit(1)
		}
		opts.Directory = dir
	}

	if cfg.Notify.WebhookURL != "" {
		opts.Relay = webhook.New(webhook.Config{
			URL:     cfg.Notify.WebhookURL,
			APIKey:  cfg.Notify.APIKey,
			Timeout: cfg.Notify.Timeout,
		})
	}

	if cfg.SMTP.Enabled() {
		opts.Mailer = smtp.New(smtp.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", map[string]any{"error": err})
	}
	log.Info("server stopped", nil)
}
