package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flag"

	"github.com/silvertalent/backend/api"
	migrations "github.com/silvertalent/backend/db"
	"github.com/silvertalent/backend/internal/alerts"
	"github.com/silvertalent/backend/internal/config"
	"github.com/silvertalent/backend/internal/db"
	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/internal/media"
	"github.com/silvertalent/backend/internal/repository/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	logger.Info("starting silvertalent server", "version", version, "build_time", buildTime)

	ctx := context.Background()

	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, migrations.Migrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage is mandatory; the job board cannot accept uploads
	// without it.
	if !cfg.Storage.Complete() {
		log.Fatalf("Storage endpoint and credentials are required (ST_STORAGE_ENDPOINT, ST_STORAGE_ACCESS_KEY, ST_STORAGE_SECRET_KEY)")
	}
	store, err := media.NewS3Store(ctx, cfg.Storage, logger)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Email is optional; without it the server runs with sends disabled.
	var notifier mailer.Notifier = mailer.Disabled{}
	if cfg.Mail.Configured() {
		smtp, err := mailer.NewSMTP(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.User,
			Password: cfg.Mail.Password,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to initialize mailer: %v", err)
		}
		notifier = smtp
	} else {
		logger.Warn("email not configured, sends disabled")
	}

	handler := api.SetupRoutes(cfg, version, buildTime, conn, store, notifier)

	repo := sqlite.New(conn, logger)
	digest := alerts.NewDigest(repo, repo, notifier, logger)
	if err := digest.Start(cfg.Alerts.Schedule); err != nil {
		log.Fatalf("Failed to schedule job alert digest: %v", err)
	}
	defer digest.Stop()

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := conn.Close(); err != nil {
		logger.Error("closing db", "err", err)
	}

	logger.Info("server exited")
}
