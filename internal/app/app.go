package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"markread_demo/internal/config"
	"markread_demo/internal/queue"
	"markread_demo/internal/service/readstate"
	"markread_demo/internal/sse"
	"markread_demo/internal/telemetry"
)

const tracerFlushTimeout = 5 * time.Second

type App struct {
	cfg         *config.Config
	hub         *sse.Hub
	outbox      *readstate.Outbox
	consumer    queue.Consumer
	server      *http.Server
	logger      *zap.Logger
	wg          sync.WaitGroup
	mu          sync.Mutex
	stopTracing telemetry.ShutdownFunc
}

func NewApp(cfg *config.Config, hub *sse.Hub, outbox *readstate.Outbox, consumer queue.Consumer, router *gin.Engine, logger *zap.Logger) *App {
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown waits for active handlers; open read-event streams end when
	// the hub stops.
	server.RegisterOnShutdown(hub.Stop)
	return &App{
		cfg:      cfg,
		hub:      hub,
		outbox:   outbox,
		consumer: consumer,
		server:   server,
		logger:   logger,
	}
}

// Run listens on the configured address and serves until Shutdown is called
// or the listener fails.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	stopTracing, err := telemetry.Init(ctx, a.cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	a.mu.Lock()
	a.stopTracing = stopTracing
	a.mu.Unlock()

	a.wg.Add(3)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.outbox.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.logger.Info("notification status server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int64("auth_user_id", a.cfg.AuthUserID),
	)
	if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waits for the background workers started by
// Serve and flushes traces. Workers exit when the context passed to Serve
// ends.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	err := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("background workers still running at shutdown deadline")
		if err == nil {
			err = ctx.Err()
		}
	}

	a.mu.Lock()
	stopTracing := a.stopTracing
	a.mu.Unlock()
	if stopTracing != nil {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tracerFlushTimeout)
		defer cancel()
		if terr := stopTracing(flushCtx); terr != nil {
			a.logger.Error("tracer shutdown failed", zap.Error(terr))
		}
	}
	if err != nil {
		return err
	}
	a.logger.Info("graceful shutdown completed")
	return nil
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
