package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvn-koech/car-rental-management-system/internal/config"
	"github.com/kvn-koech/car-rental-management-system/internal/database"
	"github.com/kvn-koech/car-rental-management-system/internal/handler"
	"github.com/kvn-koech/car-rental-management-system/internal/middleware"
	"github.com/kvn-koech/car-rental-management-system/internal/queue"
	"github.com/kvn-koech/car-rental-management-system/internal/repository"
	"github.com/kvn-koech/car-rental-management-system/internal/router"
	"github.com/kvn-koech/car-rental-management-system/internal/service"
	"github.com/kvn-koech/car-rental-management-system/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var autoMigrate bool

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply pending migrations before serving")
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if autoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Redis is optional; without it the rate limiter and cache pass through.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and response cache disabled", "addr", cfg.Redis.Address())
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)
	bookings := repository.NewBookingRepo(db)
	audit := repository.NewAuditRepo(db)

	files := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicBaseURL)
	events := queue.NewPublisher(cfg.RabbitMQ.URL, log)
	respCache := middleware.NewResponseCache(cfg.Cache, rdb, log)

	authSvc := service.NewAuthService(users, audit, cfg.Auth, log)
	inventorySvc := service.NewInventoryService(cars, files, audit, respCache, log)
	bookingSvc := service.NewBookingService(bookings, cars, events, audit, respCache, log)
	auditSvc := service.NewAuditService(audit)

	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(authSvc),
		Cars:      handler.NewCarHandler(inventorySvc),
		Bookings:  handler.NewBookingHandler(bookingSvc),
		Audit:     handler.NewAuditHandler(auditSvc),
		JWTSecret: cfg.Auth.JWTSecret,
		UploadDir: cfg.Upload.Dir,
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		Cache:     respCache.Middleware(),
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr(), "env", cfg.App.Env)
		if err := e.Start(cfg.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
