// Command cleanup deletes rejected connection requests older than the
// configured retention window. It runs the same job as the in-process
// scheduler and is intended for external cron when the scheduler is disabled.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/alumni-network-backend/internal/app"
	"github.com/heartmarshall/alumni-network-backend/internal/config"
	"github.com/heartmarshall/alumni-network-backend/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	job := scheduler.NewPruneRejected(logger, store.Connections, cfg.Network.RejectedRetention)
	if _, err := job.Run(ctx); err != nil {
		logger.Error("prune failed", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}
}
