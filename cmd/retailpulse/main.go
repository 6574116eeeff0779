package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/retailpulse/retailpulse/internal/admin/categories"
	"github.com/retailpulse/retailpulse/internal/admin/organizations"
	"github.com/retailpulse/retailpulse/internal/admin/products"
	"github.com/retailpulse/retailpulse/internal/admin/regions"
	"github.com/retailpulse/retailpulse/internal/admin/stores"
	"github.com/retailpulse/retailpulse/internal/app"
	"github.com/retailpulse/retailpulse/internal/auth"
	"github.com/retailpulse/retailpulse/internal/observability"
	"github.com/retailpulse/retailpulse/internal/platform/cache"
	"github.com/retailpulse/retailpulse/internal/platform/db"
	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
	"github.com/retailpulse/retailpulse/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "retailpulse_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool, logger)
	metrics := observability.NewMetrics()

	gate := rbac.NewGate(rbac.NewResolver(pool), logger, metrics)

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, auditLogger)

	orgHandler := organizations.NewHandler(logger,
		organizations.NewService(organizations.NewRepository(pool), auditLogger), gate)
	regionHandler := regions.NewHandler(logger,
		regions.NewService(regions.NewRepository(pool), auditLogger), gate)
	storeHandler := stores.NewHandler(logger,
		stores.NewService(stores.NewRepository(pool), auditLogger), gate)
	categoryHandler := categories.NewHandler(logger,
		categories.NewService(categories.NewRepository(pool), auditLogger), gate)
	productHandler := products.NewHandler(logger,
		products.NewService(products.NewRepository(pool), auditLogger), gate)
	userHandler := users.NewHandler(logger,
		users.NewService(users.NewRepository(pool), auditLogger), gate)
	permissionsHandler := rbac.NewPermissionsHandler(logger, gate)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthHandler:          authHandler,
		OrganizationsHandler: orgHandler,
		RegionsHandler:       regionHandler,
		StoresHandler:        storeHandler,
		CategoriesHandler:    categoryHandler,
		ProductsHandler:      productHandler,
		UsersHandler:         userHandler,
		PermissionsHandler:   permissionsHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server run", slog.Any("error", err))
		os.Exit(1)
	}
}
