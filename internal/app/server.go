package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/UserApp/internal/config"
	"github.com/GoArmGo/UserApp/internal/handler"
	"github.com/GoArmGo/UserApp/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// newRouter собирает chi-роутер со всеми маршрутами и middleware
func newRouter(cfg *config.Config, userHandler *handler.UserHandler, healthHandler *handler.HealthHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	userHandler.RegisterRoutes(r)
	r.Get("/healthz", healthHandler.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// runServer запускает HTTP сервер и останавливает его при отмене ctx
func (a *App) runServer(ctx context.Context) error {
	userHandler := handler.NewUserHandler(a.userUseCase, a.logger)
	healthHandler := handler.NewHealthHandler(a.db, a.logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.Config.ServerPort),
		Handler: newRouter(a.Config, userHandler, healthHandler, a.logger),
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received, stopping http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped gracefully")
	return nil
}
