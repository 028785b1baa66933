package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ReviewHound/internal/app"
	"ReviewHound/internal/config"
	"ReviewHound/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	mode := "once"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	var runErr error
	switch mode {
	case "watch":
		runErr = application.Watch(ctx)
	default:
		runErr = application.RunOnce(ctx)
	}

	if runErr != nil {
		logger.Error("application stopped", "error", runErr)
		os.Exit(1)
	}
}
