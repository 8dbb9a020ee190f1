package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/banking-ledger/src/internal/config"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Error("server exited with error", err, nil)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN); err != nil {
		return err
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db, cfg.LockTimeout)
	entryRepo := postgres.NewLedgerEntryRepository(db)
	userRepo := postgres.NewUserRepository(db)

	accountService := services.NewAccountService(accountRepo, accountRepo)
	transactionService := services.NewTransactionService(accountRepo, entryRepo, accountRepo)
	identityService := services.NewIdentityService(userRepo)

	handler := router.New(
		router.Options{
			AuthMiddleware:      middleware.BasicAuth(identityService),
			RateLimitMiddleware: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler,
			RequestTimeout:      cfg.RequestTimeout,
		},
		controller.NewAccountController(accountService),
		controller.NewTransactionController(transactionService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http server shutting down", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
