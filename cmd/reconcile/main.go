package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"travel/internal/app"
	"travel/internal/config"
	"travel/internal/repository/postgres"
	"travel/internal/service"
)

// reconcile lists captured payments whose booking never reached confirmed.
// It exits 1 when any are found so a scheduler can alert on it.
func main() {
	limit := flag.Int("limit", 500, "maximum number of discrepancies to report")
	timeout := flag.Duration("timeout", time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := app.NewLogger(cfg.Log, "travel-reconcile")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	svc := service.NewReconciliationService(postgres.NewPaymentRepository(db), logger)

	found, err := svc.Report(ctx, *limit)
	if err != nil {
		logger.Error().Err(err).Msg("reconciliation failed")
		db.Close()
		os.Exit(2)
	}

	logger.Info().Int("discrepancies", len(found)).Msg("reconciliation finished")
	if len(found) > 0 {
		db.Close()
		os.Exit(1)
	}
}
