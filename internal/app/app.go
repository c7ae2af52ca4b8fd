// Package app wires the configured provider, storage engines and REST
// controller into a running application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/Dime2015/lifekline/internal/controllers/restserver"
	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/internal/storage"
	"github.com/Dime2015/lifekline/pkg/config"
	"github.com/Dime2015/lifekline/pkg/lunisolar"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// BuildProvider constructs the lunisolar provider selected by the
// configuration.
func BuildProvider(cfg *config.ProviderData) (lunisolar.Provider, error) {
	switch cfg.Backend {
	case "ephemeris":
		return lunisolar.NewEphemeris(cfg.UTCOffsetHours), nil
	case "table":
		return lunisolar.LoadTable(cfg.TablePath)
	}
	return nil, fmt.Errorf("unknown provider backend %q", cfg.Backend)
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	provider, err := BuildProvider(&a.cfg.Provider)
	if err != nil {
		return err
	}

	storageManager, err := storage.NewManager(ctx, &wg, &a.cfg.Storage)
	if err != nil {
		return err
	}

	controller, err := restserver.NewController(ctx, &wg, a.cfg, provider, storageManager, a.logger)
	if err != nil {
		return err
	}
	if err := controller.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
