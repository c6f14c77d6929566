// Package server initializes and runs the fakemail core: it opens the
// configured storage backend, applies migrations, builds the services and
// serves them over gRPC until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fakemail/internal/cryptox"
	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/generator"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fakemail/internal/server/services"

	gs "github.com/dmitrijs2005/fakemail/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services gs.Services
}

// NewApp opens storage and runs migrations. The caller owns the returned
// App and must call Run, which closes the database on exit.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel)

	db, rm, err := repomanager.Open(ctx, c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	svc := gs.Services{
		Accounts:   services.NewAccountService(db, rm, c),
		Addresses:  services.NewAddressService(db, rm, c, generator.New(), cryptox.DefaultHasher()),
		Redemption: services.NewRedemptionService(db, rm, c),
		Inbox:      services.NewInboxService(db, rm),
	}

	logger.Info(ctx, "Storage ready", "driver", c.StorageDriver)

	return &App{config: c, logger: logger, db: db, services: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewgGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
	app.logger.Info(ctx, "Stopped")
}
