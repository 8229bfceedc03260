// Package server wires the mock admin API together and runs it.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-admin/config"
	"shortlink-admin/handlers"
	"shortlink-admin/services"
	"shortlink-admin/storage"
)

// storageCapacity is the number of links the in-memory store accepts.
const storageCapacity = 1000000

const shutdownTimeout = 10 * time.Second

// Run serves the mock admin API until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := NewRouter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv := setupServer(cfg, router)

	errCh := make(chan error, 1)
	go startServer(srv, logger, errCh)

	return waitForShutdown(ctx, srv, logger, errCh)
}

// NewRouter builds a router serving the admin API over a fresh in-memory store.
func NewRouter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	store := storage.NewInMemoryStorage(storageCapacity, logger)

	handler, err := setupAdminHandler(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}
	return setupRouter(handler, cfg, logger), nil
}

func setupAdminHandler(ctx context.Context, cfg *config.Config, store storage.Storage, logger *zap.Logger) (handlers.AdminHandlerInterface, error) {
	handlerCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	var linkOpts []services.LinkOption
	if cfg.FetchTitles {
		linkOpts = append(linkOpts, services.WithTitleFetcher(services.NewPageTitleFetcher(cfg.TitleTimeout)))
	}
	svc := handlers.Services{
		Users:  services.NewUserService(store, []byte(cfg.JWTSecret), cfg.SessionTTL, logger),
		Groups: services.NewGroupService(store, logger),
		Links:  services.NewLinkService(store, cfg.ShortDomain, logger, linkOpts...),
		Bin:    services.NewRecycleBinService(store, logger),
		Stats:  services.NewStatsService(store, logger),
	}

	handler, err := handlers.NewAdminHandler(handlerCtx, svc, cfg, logger)
	if err != nil {
		logger.Error("Failed to create admin handler", zap.Error(err))
		return nil, err
	}

	logger.Debug("Admin handler created successfully")
	return handler, nil
}

func setupRouter(handler handlers.AdminHandlerInterface, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), handlers.LoggerMiddleware(logger))
	handlers.RegisterRoutes(router, handler, cfg)
	return router
}

func setupServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}
}

func startServer(srv *http.Server, logger *zap.Logger, errCh chan<- error) {
	logger.Info("Starting server", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", zap.Error(err))
		errCh <- err
		return
	}
	logger.Debug("Server stopped")
}

func waitForShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger, errCh <-chan error) error {
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutdown requested. Initiating server shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server gracefully stopped")
	return nil
}
