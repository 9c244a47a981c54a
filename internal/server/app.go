// Package server assembles and runs the gateway daemon: the download proxy
// that races public gateways on behalf of browser clients, rate limited per
// caller, with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/photovault/photovault/internal/logging"
	"github.com/photovault/photovault/internal/ratelimit"
	"github.com/photovault/photovault/internal/server/config"
	"github.com/photovault/photovault/internal/server/httpapi"
	"github.com/photovault/photovault/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	limiter *ratelimit.Limiter
	handler http.Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewDefault(slog.Level(c.LogLevel))

	store := buildStore(c, logger)
	handler := httpapi.NewHandler(store, logger)

	var limiter *ratelimit.Limiter
	if c.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(c.RateLimit.SweepInterval)
	}

	router := httpapi.NewRouter(handler, httpapi.RouterParams{
		RateLimiter: limiter,
		RateLimit:   c.RateLimit.Requests,
		RateWindow:  c.RateLimit.Window,
		Logger:      logger,
	})

	return &App{config: c, logger: logger, limiter: limiter, handler: router}, nil
}

// buildStore assembles the download side of the storage engine. The daemon
// never uploads; it only races gateways for reads.
func buildStore(c *config.Config, log logging.Logger) *storage.Store {
	httpClient := http.DefaultClient

	var downloaders []storage.Downloader

	selfHosted := storage.SelfHostedConfig{
		APIBase:     c.Storage.SelfHostedAPI,
		GatewayBase: c.Storage.SelfHostedGateway,
		Username:    c.Storage.SelfHostedUser,
		Password:    c.Storage.SelfHostedPassword,
	}
	if selfHosted.GatewayBase != "" {
		downloaders = append(downloaders, storage.NewSelfHosted(selfHosted, httpClient))
	}

	pinata := storage.PinataConfig{
		GatewayBase:  c.Storage.PinataGateway,
		Token:        c.Storage.PinataToken,
		GatewayToken: c.Storage.PinataGatewayToken,
	}
	if pinata.GatewayBase != "" {
		downloaders = append(downloaders, storage.NewPinata(pinata, httpClient))
	}

	for _, gw := range c.Storage.PublicGateways {
		downloaders = append(downloaders, storage.NewPublicGateway(gw, httpClient))
	}

	return storage.NewStore(storage.StoreParams{
		Downloaders: downloaders,
		Logger:      log,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until the context is cancelled or a termination signal
// arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "gateway daemon listening", "addr", app.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	if app.limiter != nil {
		defer app.limiter.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
