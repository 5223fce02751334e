// Command seeder loads a demo network (members and connection edges) from a
// YAML fixture. It is intended for local development and staging, not as
// part of the main server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--dry-run        parse the fixture without writing to the store
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/alumni-network-backend/internal/app"
	"github.com/heartmarshall/alumni-network-backend/internal/app/seeder"
	"github.com/heartmarshall/alumni-network-backend/internal/config"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "parse the fixture without writing to the store")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	fixture, err := seeder.LoadFixture(seederCfg.FixturePath)
	if err != nil {
		logger.Error("load fixture", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, appCfg.Database, logger)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	connections := connection.NewService(logger, store.Connections, store.Users, store.Notifications, store.Audit, store.Tx,
		connection.Policy{
			RejectionCooldown: appCfg.Network.RejectionCooldown,
			PageSize:          appCfg.Network.ListMaxLimit,
			DefaultLimit:      appCfg.Network.ListDefaultLimit,
			MaxLimit:          appCfg.Network.ListMaxLimit,
		})

	pipeline := seeder.NewPipeline(logger, store.Users, connections, *seederCfg, fixture)
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		store.Close()
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
