// Command server runs the back-office HTTP API together with the daily
// scheduled-charge batch.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rentdesk-backend/internal/api"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/infrastructure/config"
	"rentdesk-backend/internal/infrastructure/logging"
	"rentdesk-backend/internal/infrastructure/storage"
	"rentdesk-backend/internal/scheduler"
)

func main() {
	// .env is optional, used for local development.
	_ = godotenv.Load()

	cfg := config.LoadOrEnv()
	logger := logging.NewLogger(cfg.Observability.Logging)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	services := api.Services{
		Reconciliations: service.NewReconciliationService(store, logger),
		Charges:         service.NewChargeService(store, logger),
		Deposits:        service.NewDepositService(store, logger),
	}

	sched, err := scheduler.NewScheduler(cfg.Charges.Schedule, services.Charges,
		logging.NewLoggerWithScope(cfg.Observability.Logging, "charges"))
	if err != nil {
		logger.Error("invalid charge schedule", "schedule", cfg.Charges.Schedule, "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, store, services, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
