package main

import (
	"context"

	"kiatsu-notification/config"
	"kiatsu-notification/di"
	services "kiatsu-notification/service"

	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting kiatsu notification service")

	cfg := config.Load()
	container := di.NewContainer(cfg, logger)

	// Run one pass at startup, then hand over to the schedule.
	ctx, cancel := context.WithTimeout(context.Background(), services.RUN_TIMEOUT)
	if err := container.PressureNotifierService.Run(ctx); err != nil {
		logger.Error("Initial notification run failed", zap.Error(err))
	}
	cancel()

	if err := container.PressureNotifierService.StartPeriodicJob(cfg.NotifyCron); err != nil {
		logger.Fatal("Failed to start notification schedule", zap.Error(err))
	}
	defer container.PressureNotifierService.StopPeriodicJob()

	container.KiatsuHttpServer.Start()
}
