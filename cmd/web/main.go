// Command web serves the inspection dashboard API and live updates.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"safetypulse/internal/app"
	"safetypulse/internal/infrastructure"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New()
	if err != nil {
		return err
	}
	defer func() { _ = infrastructure.CloseLogFile() }()

	return application.Run(ctx)
}
