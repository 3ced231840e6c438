// Package server wires the taskkeeper server together: configuration,
// logging, metrics, credential storage, token issuance and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	repo, db, err := openCredentials(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := services.NewCredentialStore(repo,
		services.WithParams(c.KDFParams()),
		services.WithWorkers(c.KDFWorkers),
		services.WithKDFTimeout(c.KDFTimeout),
		services.WithMinPasswordLength(c.MinPasswordLength),
		services.WithLogger(logger.With("module", "credential_store")),
		services.WithMetrics(m),
	)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration, auth.WithMetrics(m))
	if err != nil {
		closeDB(db)
		return nil, err
	}

	router := httpapi.NewRouter(store, tokens, logger, reg)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.EndpointAddrHTTP, router, logger),
	}, nil
}

// openCredentials picks the credential backend. Without a DSN credentials
// live in memory and the returned *sql.DB is nil.
func openCredentials(ctx context.Context, c *config.Config) (credentials.Repository, *sql.DB, error) {
	if c.DatabaseDSN == "" {
		return repomanager.NewMemoryRepositoryManager().Credentials(nil), nil, nil
	}

	db, err := sql.Open(repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return rm.Credentials(db), db, nil
}

func closeDB(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts the HTTP server down and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", runErr)
	}

	if err := closeDB(app.db); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("error closing database: %w", err))
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
