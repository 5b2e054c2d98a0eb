// Package app wires the portal together: configuration, logging, the HR
// backend client, session bootstrap, the notification poller and the HTTP
// server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	httpapi "github.com/staffdeck/staffdeck/internal/portal/http"
	"github.com/staffdeck/staffdeck/pkg/cryptox"
	"github.com/staffdeck/staffdeck/pkg/hrsdk"
	"github.com/staffdeck/staffdeck/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	store  hrsdk.SessionStore
	client *hrsdk.Client
	auth   *hrsdk.AuthState

	// Notification polling
	poller     *hrsdk.Poller
	unread     atomic.Int64
	pollCancel context.CancelFunc

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "staffdeck-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initSession(); err != nil {
		return nil, err
	}

	app.initPoller()
	app.initHTTP()

	return app, nil
}

// initSession sets up the session store, the backend client and the auth
// state on top of them.
func (app *Application) initSession() error {
	if _, err := url.ParseRequestURI(app.cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", app.cfg.APIBaseURL, err)
	}

	var opts []hrsdk.FileStoreOption
	if app.cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(app.cfg.MasterKeyPath)
		opts = append(opts, hrsdk.WithSealing())
	}
	app.store = hrsdk.NewFileStore(app.cfg.SessionFile, opts...)

	client := hrsdk.NewClient(app.cfg.APIBaseURL, app.store)
	client.Logger = app.logger
	app.client = client

	app.auth = hrsdk.NewAuthState(app.client, app.logger)

	// An irrecoverable refresh has already cleared the store; dropping the
	// in-memory user makes the guards bounce the next request to login.
	client.OnSessionExpired = func() {
		app.auth.Expire()
		app.logger.Info("session expired, signing out")
	}
	return nil
}

// initPoller builds the unread-notifications poller. It only runs while a
// user is signed in; without a session each tick is a no-op.
func (app *Application) initPoller() {
	notifications := app.client.NewResource("/notifications")

	app.poller = hrsdk.NewPoller(app.cfg.PollInterval, func(ctx context.Context) error {
		if !app.auth.IsAuthenticated() {
			app.unread.Store(0)
			return nil
		}

		var payload struct {
			Count int64 `json:"count"`
		}
		if err := notifications.Get(ctx, "unread-count", &payload); err != nil {
			return err
		}
		app.unread.Store(payload.Count)
		return nil
	}, app.logger)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.auth, app.client, app.logger)
	router.NotificationCount = app.unread.Load
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Hydrate and verify the persisted session while the server comes up;
	// guarded routes render the checking state until this settles.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	go func() {
		defer bootCancel()
		app.auth.Bootstrap(bootCtx)
	}()

	pollCtx, pollCancel := context.WithCancel(context.Background())
	app.pollCancel = pollCancel
	go app.poller.Run(pollCtx)

	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGrace)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the notification poller
	if app.pollCancel != nil {
		app.pollCancel()
	}

	app.logger.Info("portal stopped")
	return nil
}
