// Package server initializes and runs the weather dashboard backend.
// It opens the database, applies migrations, wires the services and the
// upstream weather gateway, and starts the HTTP server with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/config"
	"github.com/dmitrijs2005/weatherdash/internal/server/httpapi"
	"github.com/dmitrijs2005/weatherdash/internal/server/observability"
	"github.com/dmitrijs2005/weatherdash/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/weatherdash/internal/server/services"
	"github.com/dmitrijs2005/weatherdash/internal/server/weatherapi"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	metrics := observability.NewMetrics()

	gateway := weatherapi.NewClient(weatherapi.Config{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherAPIBaseURL,
		Timeout: cfg.UpstreamTimeout,
		Metrics: metrics,
		Logger:  logger,
	})

	accountService := services.NewAccountService(db, rm, logger)
	favouriteService := services.NewFavouriteService(db, rm, metrics, logger)
	dashboardService := services.NewDashboardService(favouriteService, gateway, logger)

	httpServer := httpapi.NewServer(cfg.EndpointAddr, accountService, favouriteService, dashboardService, db, metrics, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		httpServer: httpServer,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
