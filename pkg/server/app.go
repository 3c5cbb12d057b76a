package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HodlCalc/internal/scheduler"
	xhttp "HodlCalc/pkg/http"
	applogger "HodlCalc/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *scheduler.Scheduler
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

// New creates a new App instance with all dependencies.
func New(logger *applogger.Logger, httpServer *xhttp.Server, sched *scheduler.Scheduler) *App {
	return &App{
		logger:     logger,
		httpServer: httpServer,
		scheduler:  sched,
	}
}

// OnClose registers a resource released after the server and scheduler
// stop, in reverse registration order.
func (a *App) OnClose(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// HTTPServer exposes the HTTP server.
func (a *App) HTTPServer() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done or the
// HTTP server fails.
func (a *App) RunContext(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			a.logger.Error("scheduler start error", applogger.Error(err))
			return err
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		a.shutdown()
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	a.shutdown()
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.logger.Info("shutting down...")

	timeout := a.httpServer.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
}
