// Command postcharges runs one scheduled-charge posting pass and exits.
// Useful from an external cron or for catching up after downtime.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/infrastructure/config"
	"rentdesk-backend/internal/infrastructure/logging"
	"rentdesk-backend/internal/infrastructure/storage"
)

func main() {
	leaseID := flag.Int64("lease", 0, "post only this lease's charges (0 = all)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.LoadOrEnv()
	logger := logging.NewLoggerWithScope(cfg.Observability.Logging, "charges")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	charges := service.NewChargeService(store, logger)

	var scope *int64
	if *leaseID > 0 {
		scope = leaseID
	}

	result, err := charges.PostDue(scope, time.Now().UTC())
	if err != nil {
		logger.Error("posting run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("posting run complete",
		"posted", result.Posted, "skipped", result.Skipped, "errors", result.Errors)
	for _, detail := range result.Details {
		logger.Warn("charge failed", "detail", detail)
	}
	if result.Errors > 0 {
		os.Exit(1)
	}
}
