// Package main запускает HTTP-сервер сервиса записи на услуги.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/trava-scheduler/internal/config"
	"github.com/mmeshcher/trava-scheduler/internal/handler"
	"github.com/mmeshcher/trava-scheduler/internal/middleware"
	"github.com/mmeshcher/trava-scheduler/internal/payment"
	"github.com/mmeshcher/trava-scheduler/internal/repository"
	"github.com/mmeshcher/trava-scheduler/internal/service"
	"github.com/mmeshcher/trava-scheduler/internal/store"
)

const (
	loginRPS   = 1
	loginBurst = 5
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		sugar.Warnw("load .env", "error", err.Error())
	}

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := repository.Open(ctx, repository.Options{
		Driver:        cfg.StorageDriver,
		DatabaseURI:   cfg.DatabaseURI,
		SQLitePath:    cfg.SQLitePath,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		sugar.Fatalw("storage initialization error", "driver", cfg.StorageDriver, "error", err.Error())
	}

	svc := service.NewService(store.New(backend, logger), payment.DefaultRegistry(), cfg.PublicBaseURL, logger)
	defer svc.Close()

	if current, err := svc.CurrentAccount(ctx); err != nil {
		sugar.Warnw("read current session", "error", err.Error())
	} else if current != nil {
		sugar.Infow("restored session", "account", current.Email)
	}

	if cfg.AuthSecret == "" {
		sugar.Warn("AUTH_SECRET is not set, sessions will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)
	limiter := middleware.NewRateLimiter(loginRPS, loginBurst)

	h := handler.NewHandler(svc, logger, authMiddleware, limiter)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter.Run(ctx)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting trava server", "addr", cfg.RunAddress, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// остановка по сигналу или при ошибке в другой горутине
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
