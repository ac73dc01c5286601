// Package server wires the CampusWall server: it opens the database, applies
// migrations, builds the services and runs the gRPC endpoint until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/logging"
	"github.com/dmitrijs2005/campuswall/internal/server/config"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuswall/internal/server/services"
	"github.com/dmitrijs2005/campuswall/internal/server/shared/db"

	gs "github.com/dmitrijs2005/campuswall/internal/server/grpc"
)

// openDB is a test seam for db.Open.
var openDB = db.Open

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	boxService    *services.BoxService
	uploadService *services.UploadService
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	conn, err := openDB(ctx, c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(c.StorageDriver)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := rm.RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            conn,
		userService:   services.NewUserService(conn, rm, c),
		boxService:    services.NewBoxService(conn, rm),
		uploadService: services.NewUploadService(c),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) newGRPCServer() *gs.GRPCServer {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.boxService, app.uploadService)
	s.LimitAuth(app.config.AuthRateLimit, app.config.AuthRateBurst)
	return s
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, s *gs.GRPCServer) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

// startMetricsServer serves /metrics until ctx is done. A listen failure is
// logged and does not stop the gRPC endpoint.
func (app *App) startMetricsServer(ctx context.Context, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "metrics server shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "metrics server failed", "error", err)
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.StorageDriver)

	app.initSignalHandler(ctx, cancelFunc)

	s := app.newGRPCServer()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, s)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, s.MetricsHandler())
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
