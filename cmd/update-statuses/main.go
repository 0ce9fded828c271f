// Command update-statuses reclassifies every membership as of today and
// prints how many rows changed. It is meant for cron.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/loki1512/MS-Fitness-Gym/internal/app"
	"github.com/loki1512/MS-Fitness-Gym/internal/config"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
)

func main() {
	cfg := config.GetConfig()
	app.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		logger.WorkerLog("update_statuses", "connect", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	container := services.NewServiceContainer(nil, nil)
	updated, err := container.MembershipService.RefreshAll(ctx, db)
	if err != nil {
		logger.WorkerLog("update_statuses", "refresh", err)
		stop()
		os.Exit(1)
	}

	logger.WorkerLog("update_statuses", "refresh", nil, "updated", updated)
	fmt.Printf("Updated %d membership statuses\n", updated)
}
