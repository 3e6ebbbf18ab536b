package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	_ "github.com/WallyDD-pixel/bbyatchv2-master-sub002/docs"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/app"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/config"
)

// @title Yacht Booking API
// @version 1.0
// @description Availability, reservations, agency requests and deposit payments for yacht charters.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stdout, cfg.Log)

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		application, err := app.New(cfg, logger)
		if err != nil {
			logger.Error("failed to create application", "error", err)
			os.Exit(1)
		}
		if err := application.Run(context.Background()); err != nil {
			logger.Error("application finished with error", "error", err)
			os.Exit(1)
		}
	case "migrate":
		dir, ok := migrateDirection(os.Args[2:])
		if !ok {
			logger.Error("unknown migrate direction", "args", os.Args[2:], "usage", usage)
			os.Exit(2)
		}
		if err := app.Migrate(context.Background(), cfg, dir, logger); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown command", "command", cmd, "usage", usage)
		os.Exit(2)
	}
}

const usage = "yachtd [serve|migrate [up|down]]"

// migrateDirection reads the optional argument of `yachtd migrate`; it defaults to up.
func migrateDirection(args []string) (app.MigrateDirection, bool) {
	if len(args) == 0 {
		return app.MigrateUp, true
	}
	switch dir := app.MigrateDirection(args[0]); dir {
	case app.MigrateUp, app.MigrateDown:
		return dir, len(args) == 1
	default:
		return "", false
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
