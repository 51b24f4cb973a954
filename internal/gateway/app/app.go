// Package app wires the gateway together: config, logging, credential store
// driver selection, the session manager, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	redisstore "github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore/drivers/redis"
	sqlitestore "github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore/drivers/sqlite"
	httpapi "github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/gateway/http"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/session"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store       credstore.Store
	storeCloser io.Closer
	session     *session.Manager

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "session-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	api := bookingapi.NewClient(cfg.BookingAPIURL)
	api.HTTPClient.Timeout = cfg.UpstreamTimeout
	app.session = session.NewManager(app.store, api, app.logger)

	// Restore any persisted session before serving traffic.
	if err := app.session.Bootstrap(context.Background()); err != nil {
		return nil, fmt.Errorf("bootstrap session: %w", err)
	}

	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("session gateway starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.storeCloser != nil {
		if err := app.storeCloser.Close(); err != nil {
			app.logger.Error("error closing credential store", "error", err)
			return err
		}
	}

	app.logger.Info("session gateway stopped")
	return nil
}

// initStore selects and initializes the configured credential store driver.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case StoreDriverMemory:
		app.store = credstore.NewMemory()

	case StoreDriverFile:
		s, err := credstore.NewFile(app.cfg.StoreFile)
		if err != nil {
			return fmt.Errorf("initialize file credential store: %w", err)
		}
		app.store = s

	case StoreDriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     app.cfg.Redis.Addr,
			Password: app.cfg.Redis.Password,
			DB:       app.cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		app.store = redisstore.NewStoreWithPrefix(client, app.cfg.Redis.Prefix)
		app.storeCloser = client

	case StoreDriverSQLite:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.StoreDatabase)
		s, err := sqlitestore.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("initialize sqlite credential store: %w", err)
		}
		if err := s.ApplyMigrations(); err != nil {
			_ = s.Close()
			return fmt.Errorf("apply credential store migrations: %w", err)
		}
		app.store = s
		app.storeCloser = s

	default:
		return fmt.Errorf("unknown credential store driver %q", app.cfg.StoreDriver)
	}

	app.logger.Info("credential store initialized", "driver", app.cfg.StoreDriver)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() error {
	upstream, err := url.Parse(app.cfg.BookingAPIURL)
	if err != nil {
		return fmt.Errorf("parse booking API URL: %w", err)
	}

	transport := app.session.Transport(nil)
	if app.cfg.OutboundRPS > 0 {
		transport.Limiter = rate.NewLimiter(rate.Limit(app.cfg.OutboundRPS), int(app.cfg.OutboundRPS)+1)
	}

	router := httpapi.NewRouter(app.session, upstream, BuildVersion, app.logger)
	router.Transport = transport
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
