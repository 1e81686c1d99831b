// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/config"
	"github.com/Shivanand-hulikatti/activity-signup/internal/database"
	"github.com/Shivanand-hulikatti/activity-signup/internal/handler"
	"github.com/Shivanand-hulikatti/activity-signup/internal/logging"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// ── 1. Config and logging ─────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	// ── 2. Credential source ──────────────────────────────────────────────
	var teachers repository.TeacherSource
	if cfg.TeachersDBURL != "" {
		pool, err := database.NewPool(ctx, cfg.TeachersDBURL, logger)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()
		teachers = repository.NewPostgresTeacherSource(pool)
		logger.Info("teacher credentials read from postgres")
	} else {
		teachers = repository.NewFileTeacherSource(cfg.TeachersFile)
		logger.Info("teacher credentials read from file", "path", cfg.TeachersFile)
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	activityRepo := repository.NewActivityRepository(repository.SeedActivities())
	sessionRepo := repository.NewSessionRepository()
	authSvc := service.NewAuthService(teachers, sessionRepo)
	activitySvc := service.NewActivityService(activityRepo)
	h := handler.NewActivityHandler(authSvc, activitySvc)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(h, cfg.StaticDir, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// ── 4. Serve with graceful shutdown ───────────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
