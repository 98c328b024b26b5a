package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the engine, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting clan war engine...")

	app, err := New(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Serve(ctx); err != nil {
		return err
	}

	log.Info("Shutdown completed")
	return nil
}
